package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/Ram-SrinivasChandran/cos-spring-project/pkg/cache"
	"github.com/Ram-SrinivasChandran/cos-spring-project/repository"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// menus assembled concurrently
const assembleLimit = 4

// MenuView is a menu joined to its food items and every day it is served.
type MenuView struct {
	FoodMenu         entity.FoodMenu       `json:"foodMenu"`
	FoodItems        []entity.FoodItem     `json:"foodItems"`
	AvailabilityList []entity.Availability `json:"availabilityList"`
}

type MenuService struct {
	Repo     *repository.MenuRepository
	Cache    cache.Cache // optional
	CacheTTL time.Duration
	Now      func() time.Time
}

func NewMenuService(repo *repository.MenuRepository, c cache.Cache, ttl time.Duration) *MenuService {
	return &MenuService{Repo: repo, Cache: c, CacheTTL: ttl, Now: time.Now}
}

// Today returns the lowercase UTC weekday name, e.g. "monday".
func (s *MenuService) Today() string {
	return strings.ToLower(s.Now().UTC().Weekday().String())
}

// TodayMenus resolves the menus available today. A day without an
// availability row yields an empty list.
func (s *MenuService) TodayMenus(ctx context.Context) ([]entity.FoodMenu, error) {
	repo := s.Repo.WithTx(s.Repo.DB.WithContext(ctx))
	a, err := repo.FindAvailabilityByDay(s.Today())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []entity.FoodMenu{}, nil
	}
	if err != nil {
		return nil, err
	}
	return repo.MenusByAvailability(a.ID)
}

// AssembleMenuView joins menu to its food items and full schedule.
func (s *MenuService) AssembleMenuView(ctx context.Context, menu entity.FoodMenu) (*MenuView, error) {
	repo := s.Repo.WithTx(s.Repo.DB.WithContext(ctx))
	items, err := repo.FoodItemsByMenu(menu.ID)
	if err != nil {
		return nil, err
	}
	days, err := repo.AvailabilitiesByMenu(menu.ID)
	if err != nil {
		return nil, err
	}
	return &MenuView{FoodMenu: menu, FoodItems: items, AvailabilityList: days}, nil
}

// TodayMenuViews is GET /orders/foodMenus.
func (s *MenuService) TodayMenuViews(ctx context.Context) ([]MenuView, error) {
	key := ""
	if s.Cache != nil {
		key = s.Cache.GenerateKey("foodMenus", s.Today())
		if views, ok := s.cached(ctx, key); ok {
			return views, nil
		}
	}

	menus, err := s.TodayMenus(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]MenuView, len(menus))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(assembleLimit)
	for i := range menus {
		g.Go(func() error {
			v, err := s.AssembleMenuView(gctx, menus[i])
			if err != nil {
				return err
			}
			views[i] = *v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.store(ctx, key, views)
	}
	return views, nil
}

func (s *MenuService) cached(ctx context.Context, key string) ([]MenuView, bool) {
	raw, err := s.Cache.Get(ctx, key)
	if err != nil {
		logFor(ctx).WithError(err).WithField("key", key).Warn("menu cache get failed")
		return nil, false
	}
	if raw == "" {
		return nil, false
	}
	var views []MenuView
	if err := json.Unmarshal([]byte(raw), &views); err != nil {
		logFor(ctx).WithError(err).WithField("key", key).Warn("menu cache entry unreadable")
		return nil, false
	}
	return views, true
}

func (s *MenuService) store(ctx context.Context, key string, views []MenuView) {
	b, err := json.Marshal(views)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, string(b), s.CacheTTL); err != nil {
		logFor(ctx).WithError(err).WithField("key", key).Warn("menu cache set failed")
	}
}
