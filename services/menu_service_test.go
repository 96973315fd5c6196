package services

import (
	"context"
	"testing"
	"time"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/Ram-SrinivasChandran/cos-spring-project/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedMenus puts Breakfast on monday and tuesday, Lunch on tuesday only.
func seedMenus(t *testing.T, f *fixture) {
	t.Helper()
	repo := repository.NewMenuRepository(f.db)

	mon, err := repo.FirstOrCreateAvailability("monday")
	require.NoError(t, err)
	tue, err := repo.FirstOrCreateAvailability("tuesday")
	require.NoError(t, err)

	breakfast := &entity.FoodMenu{Name: "Breakfast", Type: "veg"}
	require.NoError(t, repo.FirstOrCreateMenu(breakfast))
	lunch := &entity.FoodMenu{Name: "Lunch", Type: "veg"}
	require.NoError(t, repo.FirstOrCreateMenu(lunch))

	require.NoError(t, repo.LinkFoodItem(breakfast.ID, f.foods[0].ID))
	require.NoError(t, repo.LinkFoodItem(breakfast.ID, f.foods[2].ID))
	require.NoError(t, repo.LinkFoodItem(lunch.ID, f.foods[1].ID))
	require.NoError(t, repo.LinkAvailability(breakfast.ID, mon.ID))
	require.NoError(t, repo.LinkAvailability(breakfast.ID, tue.ID))
	require.NoError(t, repo.LinkAvailability(lunch.ID, tue.ID))
	// linking twice is harmless
	require.NoError(t, repo.LinkAvailability(lunch.ID, tue.ID))
}

func TestToday(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "monday", f.menus.Today())

	// 23:30 in UTC-5 is already tuesday in UTC
	f.menus.Now = func() time.Time {
		return time.Date(2024, time.January, 1, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	}
	assert.Equal(t, "tuesday", f.menus.Today())
}

func TestTodayMenusWithoutAvailability(t *testing.T) {
	f := newFixture(t)

	menus, err := f.menus.TodayMenus(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, menus)
	assert.Empty(t, menus)

	views, err := f.menus.TodayMenuViews(context.Background())
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestTodayMenuViews(t *testing.T) {
	f := newFixture(t)
	seedMenus(t, f)
	ctx := context.Background()

	views, err := f.menus.TodayMenuViews(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	v := views[0]
	assert.Equal(t, "Breakfast", v.FoodMenu.Name)

	names := []string{}
	for _, fi := range v.FoodItems {
		names = append(names, fi.Name)
	}
	assert.ElementsMatch(t, []string{"Idli", "Coffee"}, names)

	days := []string{}
	for _, a := range v.AvailabilityList {
		days = append(days, a.Day)
	}
	assert.ElementsMatch(t, []string{"monday", "tuesday"}, days)

	f.menus.Now = func() time.Time { return fixedNow.AddDate(0, 0, 1) }
	views, err = f.menus.TodayMenuViews(ctx)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestTodayMenuViewsCached(t *testing.T) {
	f := newFixture(t)
	seedMenus(t, f)
	ctx := context.Background()
	c := newMemCache()
	f.menus.Cache = c

	first, err := f.menus.TodayMenuViews(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, c.sets)
	assert.Contains(t, c.data, "test:foodMenus:monday")

	// the cached copy is served even after the menu table changes
	require.NoError(t, f.db.Exec("DELETE FROM food_menu_availability_maps").Error)
	second, err := f.menus.TodayMenuViews(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].FoodMenu.Name, second[0].FoodMenu.Name)
	assert.Equal(t, 1, c.sets)
}
