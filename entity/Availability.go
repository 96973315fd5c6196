package entity

import (
	"gorm.io/gorm"
)

// Weekdays are the day tokens stored in Availability.Day.
var Weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

type Availability struct {
	gorm.Model
	Day string `gorm:"uniqueIndex;not null" json:"day" validate:"required,oneof=sunday monday tuesday wednesday thursday friday saturday"`

	FoodMenus []FoodMenuAvailabilityMap `json:"-"`
}
