package repository

import (
	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

func (r *MenuRepository) WithTx(tx *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: tx}
}

// ---------------- Availability ----------------

func (r *MenuRepository) FindAvailabilityByDay(day string) (*entity.Availability, error) {
	var a entity.Availability
	if err := r.DB.Where("day = ?", day).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// MenusByAvailability returns the menus mapped to the availability row, by menu id.
func (r *MenuRepository) MenusByAvailability(availabilityID uint) ([]entity.FoodMenu, error) {
	var menus []entity.FoodMenu
	err := r.DB.Model(&entity.FoodMenu{}).
		Joins("JOIN food_menu_availability_maps m ON m.food_menu_id = food_menus.id AND m.deleted_at IS NULL").
		Where("m.availability_id = ?", availabilityID).
		Order("food_menus.id ASC").
		Find(&menus).Error
	return menus, err
}

func (r *MenuRepository) AvailabilitiesByMenu(menuID uint) ([]entity.Availability, error) {
	var out []entity.Availability
	err := r.DB.Model(&entity.Availability{}).
		Joins("JOIN food_menu_availability_maps m ON m.availability_id = availabilities.id AND m.deleted_at IS NULL").
		Where("m.food_menu_id = ?", menuID).
		Order("availabilities.id ASC").
		Find(&out).Error
	return out, err
}

// ---------------- Food items ----------------

func (r *MenuRepository) FoodItemsByMenu(menuID uint) ([]entity.FoodItem, error) {
	var out []entity.FoodItem
	err := r.DB.Model(&entity.FoodItem{}).
		Joins("JOIN food_menu_food_item_maps m ON m.food_item_id = food_items.id AND m.deleted_at IS NULL").
		Where("m.food_menu_id = ?", menuID).
		Order("food_items.id ASC").
		Find(&out).Error
	return out, err
}

// FindFoodItems loads the given ids keyed by id. Missing ids are absent from the map.
func (r *MenuRepository) FindFoodItems(ids []uint) (map[uint]entity.FoodItem, error) {
	out := make(map[uint]entity.FoodItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []entity.FoodItem
	if err := r.DB.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, f := range rows {
		out[f.ID] = f
	}
	return out, nil
}

// ---------------- Seeding ----------------

func (r *MenuRepository) FirstOrCreateAvailability(day string) (*entity.Availability, error) {
	var a entity.Availability
	err := r.DB.Where(entity.Availability{Day: day}).FirstOrCreate(&a).Error
	return &a, err
}

func (r *MenuRepository) FirstOrCreateMenu(m *entity.FoodMenu) error {
	return r.DB.Where(entity.FoodMenu{Name: m.Name}).Attrs(entity.FoodMenu{Type: m.Type}).FirstOrCreate(m).Error
}

func (r *MenuRepository) FirstOrCreateFoodItem(f *entity.FoodItem) error {
	return r.DB.Where(entity.FoodItem{Name: f.Name}).Attrs(entity.FoodItem{Cost: f.Cost}).FirstOrCreate(f).Error
}

func (r *MenuRepository) LinkFoodItem(menuID, foodItemID uint) error {
	var m entity.FoodMenuFoodItemMap
	return r.DB.Where(entity.FoodMenuFoodItemMap{FoodMenuID: menuID, FoodItemID: foodItemID}).FirstOrCreate(&m).Error
}

func (r *MenuRepository) LinkAvailability(menuID, availabilityID uint) error {
	var m entity.FoodMenuAvailabilityMap
	return r.DB.Where(entity.FoodMenuAvailabilityMap{FoodMenuID: menuID, AvailabilityID: availabilityID}).FirstOrCreate(&m).Error
}
