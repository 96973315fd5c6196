package repository

import (
	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"gorm.io/gorm"
)

// UserRepository talks to the users table only.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CountByEmail(email string) (int64, error) {
	var count int64
	if err := r.DB.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) Create(user *entity.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var user entity.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) role(id uint) (string, error) {
	var row struct{ Role string }
	res := r.DB.Model(&entity.User{}).Select("role").Where("id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return "", res.Error
	}
	return row.Role, nil
}

// IsCustomer is false for unknown users.
func (r *UserRepository) IsCustomer(id uint) (bool, error) {
	role, err := r.role(id)
	if err != nil {
		return false, err
	}
	return role == entity.RoleCustomer, nil
}

func (r *UserRepository) IsStaff(id uint) (bool, error) {
	role, err := r.role(id)
	if err != nil {
		return false, err
	}
	return role == entity.RoleStaff || role == entity.RoleAdmin, nil
}
