package entity

import (
	"gorm.io/gorm"
)

type FoodMenuAvailabilityMap struct {
	gorm.Model
	FoodMenuID uint     `gorm:"uniqueIndex:idx_menu_availability;not null" json:"foodMenuId"`
	FoodMenu   FoodMenu `json:"-"`

	AvailabilityID uint         `gorm:"uniqueIndex:idx_menu_availability;not null" json:"availabilityId"`
	Availability   Availability `json:"-"`
}
