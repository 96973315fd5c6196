package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/Ram-SrinivasChandran/cos-spring-project/repository"
	"gorm.io/datatypes"
)

type AddressService struct {
	Repo     *repository.AddressRepository
	Users    RoleChecker
	Validate FieldValidator
}

func NewAddressService(repo *repository.AddressRepository, users RoleChecker, v FieldValidator) *AddressService {
	return &AddressService{Repo: repo, Users: users, Validate: v}
}

// Create stores a delivery address for a customer.
func (s *AddressService) Create(ctx context.Context, userID uint, addr *entity.Address) (*entity.UserAddressMap, error) {
	ok, err := s.Users.IsCustomer(userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("user %d is not a customer: %w", userID, ErrUnauthorized)
	}
	if err := validateFields(s.Validate, addr); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(addr)
	if err != nil {
		return nil, err
	}

	row := &entity.UserAddressMap{UserID: userID, Address: datatypes.JSON(payload)}
	if err := s.Repo.WithTx(s.Repo.DB.WithContext(ctx)).Create(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *AddressService) List(ctx context.Context, userID uint) ([]entity.UserAddressMap, error) {
	return s.Repo.WithTx(s.Repo.DB.WithContext(ctx)).ListForUser(userID)
}
