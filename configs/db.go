package configs

import (
	"fmt"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionDB opens the configured database.
func ConnectionDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBSource)
	default:
		dialector = sqlite.Open(cfg.DBSource)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	if cfg.DBDriver == "sqlite" {
		// sqlite allows one writer; a single connection keeps transactions from tripping over each other
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// SetupDatabase migrates the schema.
func SetupDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Availability{}, &entity.FoodMenu{}, &entity.FoodItem{},
		&entity.FoodMenuAvailabilityMap{}, &entity.FoodMenuFoodItemMap{},
		&entity.UserAddressMap{},
		&entity.Order{}, &entity.OrderItem{},
	)
}
