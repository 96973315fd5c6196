package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FoodItem struct {
	gorm.Model
	Name string          `gorm:"uniqueIndex;not null" json:"name" validate:"required,min=1,max=50"`
	Cost decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost" validate:"gt=0"` // unit cost

	FoodMenus []FoodMenuFoodItemMap `json:"-"`
}
