package entity

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type OrderItem struct {
	gorm.Model
	OrderID uint  `gorm:"uniqueIndex:idx_order_food_item;not null" json:"orderId"`
	Order   Order `json:"-"`

	FoodItemID uint     `gorm:"uniqueIndex:idx_order_food_item;not null" json:"foodItemId"`
	FoodItem   FoodItem `json:"-"`

	Quantity int             `gorm:"not null" json:"quantity"`
	Cost     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost"`
}

// NewOrderItem builds a line item for food with its cost derived from the
// food item's unit cost. Cost is never taken from the caller.
func NewOrderItem(orderID uint, food *FoodItem, quantity int) (*OrderItem, error) {
	oi := &OrderItem{OrderID: orderID}
	if err := oi.SetQuantity(food, quantity); err != nil {
		return nil, err
	}
	return oi, nil
}

// SetQuantity rebinds the line to food and recomputes its cost.
func (oi *OrderItem) SetQuantity(food *FoodItem, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	oi.FoodItemID = food.ID
	oi.Quantity = quantity
	oi.Cost = LineCost(food.Cost, quantity)
	return nil
}

func LineCost(unitCost decimal.Decimal, quantity int) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(int64(quantity)))
}
