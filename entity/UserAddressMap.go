package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Address is the payload stored in UserAddressMap.Address.
type Address struct {
	Line1      string `json:"line1" validate:"required,max=100"`
	Line2      string `json:"line2,omitempty" validate:"max=100"`
	City       string `json:"city" validate:"required,max=50"`
	State      string `json:"state,omitempty" validate:"max=50"`
	PostalCode string `json:"postalCode" validate:"required,max=12"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

type UserAddressMap struct {
	gorm.Model
	UserID uint `gorm:"index;not null" json:"userId"`
	User   User `json:"-"`

	Address datatypes.JSON `gorm:"not null" json:"address"`
}
