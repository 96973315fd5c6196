package entity

import (
	"gorm.io/gorm"
)

type FoodMenuFoodItemMap struct {
	gorm.Model
	FoodMenuID uint     `gorm:"uniqueIndex:idx_menu_food_item;not null" json:"foodMenuId"`
	FoodMenu   FoodMenu `json:"-"`

	FoodItemID uint     `gorm:"uniqueIndex:idx_menu_food_item;not null" json:"foodItemId"`
	FoodItem   FoodItem `json:"-"`
}
