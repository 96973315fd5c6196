package repository

import (
	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"gorm.io/gorm"
)

type AddressRepository struct {
	DB *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{DB: db}
}

func (r *AddressRepository) WithTx(tx *gorm.DB) *AddressRepository {
	return &AddressRepository{DB: tx}
}

func (r *AddressRepository) Create(a *entity.UserAddressMap) error {
	return r.DB.Create(a).Error
}

// FindForUser returns gorm.ErrRecordNotFound when the address belongs to someone else.
func (r *AddressRepository) FindForUser(userID, addressID uint) (*entity.UserAddressMap, error) {
	var a entity.UserAddressMap
	if err := r.DB.Where("id = ? AND user_id = ?", addressID, userID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AddressRepository) ListForUser(userID uint) ([]entity.UserAddressMap, error) {
	var out []entity.UserAddressMap
	err := r.DB.Where("user_id = ?", userID).Order("id ASC").Find(&out).Error
	return out, err
}
