package entity

import (
	"gorm.io/gorm"
)

// FoodMenu is a named category of food items, scheduled for specific weekdays.
type FoodMenu struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name" validate:"required,min=1,max=20"`
	Type string `gorm:"not null" json:"type" validate:"required,min=1,max=20"`

	FoodItems      []FoodMenuFoodItemMap     `json:"-"`
	Availabilities []FoodMenuAvailabilityMap `json:"-"`
}
