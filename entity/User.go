package entity

import (
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `json:"-"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `gorm:"not null;default:customer" json:"role"`

	Orders    []Order          `json:"-"`
	Addresses []UserAddressMap `json:"-"`
}

func (u *User) IsCustomer() bool { return u.Role == RoleCustomer }

// IsStaff reports whether the user may move orders through the kitchen and delivery states.
func (u *User) IsStaff() bool { return u.Role == RoleStaff || u.Role == RoleAdmin }
