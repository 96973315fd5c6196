package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	UserID uint `gorm:"index;not null" json:"userId" validate:"required"`
	User   User `json:"-"`

	Status    OrderStatus     `gorm:"index;not null" json:"status" validate:"required"`
	TotalCost decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"totalCost"`

	// set when the order is placed
	AddressID *uint           `json:"addressId,omitempty"`
	Address   *UserAddressMap `json:"address,omitempty"`

	OrderItems []OrderItem `json:"-"`
}
