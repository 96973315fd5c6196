package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/Ram-SrinivasChandran/cos-spring-project/repository"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedFile is the YAML layout of SEED_FILE.
type SeedFile struct {
	Menus []struct {
		Name  string   `yaml:"name"`
		Type  string   `yaml:"type"`
		Days  []string `yaml:"days"`
		Items []struct {
			Name string `yaml:"name"`
			Cost string `yaml:"cost"`
		} `yaml:"items"`
	} `yaml:"menus"`
}

// SeedAvailability creates one row per weekday.
func SeedAvailability(db *gorm.DB) error {
	repo := repository.NewMenuRepository(db)
	for _, day := range entity.Weekdays {
		if _, err := repo.FirstOrCreateAvailability(day); err != nil {
			return fmt.Errorf("seed availability %s: %w", day, err)
		}
	}
	return nil
}

// SeedStaff creates the staff account from STAFF_EMAIL/STAFF_PASSWORD once.
func SeedStaff(db *gorm.DB, cfg *Config) error {
	if cfg.StaffEmail == "" || cfg.StaffPassword == "" {
		log.Info("skip seeding staff: missing STAFF_EMAIL/STAFF_PASSWORD")
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(cfg.StaffEmail))
	users := repository.NewUserRepository(db)
	count, err := users.CountByEmail(email)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.StaffPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return users.Create(&entity.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Staff",
		LastName:  "Seed",
		Role:      entity.RoleStaff,
	})
}

// SeedMenus loads menus, food items and their weekdays from a YAML file.
// Rows are matched by name, so running it twice is harmless.
func SeedMenus(db *gorm.DB, path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("path", path).Warn("seed file not found")
		return nil
	}
	if err != nil {
		return err
	}
	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewMenuRepository(tx)
		for _, m := range seed.Menus {
			menu := &entity.FoodMenu{Name: m.Name, Type: m.Type}
			if err := repo.FirstOrCreateMenu(menu); err != nil {
				return fmt.Errorf("menu %q: %w", m.Name, err)
			}
			for _, it := range m.Items {
				cost, err := decimal.NewFromString(it.Cost)
				if err != nil {
					return fmt.Errorf("food item %q cost: %w", it.Name, err)
				}
				food := &entity.FoodItem{Name: it.Name, Cost: cost}
				if err := repo.FirstOrCreateFoodItem(food); err != nil {
					return fmt.Errorf("food item %q: %w", it.Name, err)
				}
				if err := repo.LinkFoodItem(menu.ID, food.ID); err != nil {
					return err
				}
			}
			for _, d := range m.Days {
				a, err := repo.FirstOrCreateAvailability(strings.ToLower(strings.TrimSpace(d)))
				if err != nil {
					return err
				}
				if err := repo.LinkAvailability(menu.ID, a.ID); err != nil {
					return err
				}
			}
		}
		log.WithFields(log.Fields{"path": path, "menus": len(seed.Menus)}).Info("menus seeded")
		return nil
	})
}
