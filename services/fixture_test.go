package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/Ram-SrinivasChandran/cos-spring-project/pkg/events"
	"github.com/Ram-SrinivasChandran/cos-spring-project/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// monday, 2024-01-01
var fixedNow = time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	orders   *OrderService
	menus    *MenuService
	addrs    *AddressService
	events   *recorder
	customer uint
	other    uint
	staff    uint
	foods    []entity.FoodItem
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Availability{}, &entity.FoodMenu{}, &entity.FoodItem{},
		&entity.FoodMenuAvailabilityMap{}, &entity.FoodMenuFoodItemMap{},
		&entity.UserAddressMap{},
		&entity.Order{}, &entity.OrderItem{},
	))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)

	users := []entity.User{
		{Email: "cust@example.com", FirstName: "Asha", Role: entity.RoleCustomer},
		{Email: "other@example.com", FirstName: "Ravi", Role: entity.RoleCustomer},
		{Email: "staff@example.com", FirstName: "Kitchen", Role: entity.RoleStaff},
	}
	require.NoError(t, db.Create(&users).Error)

	foods := []entity.FoodItem{
		{Name: "Idli", Cost: decimal.NewFromInt(5)},
		{Name: "Vada", Cost: decimal.NewFromInt(3)},
		{Name: "Coffee", Cost: decimal.NewFromInt(2)},
	}
	require.NoError(t, db.Create(&foods).Error)

	rec := &recorder{}
	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	addrRepo := repository.NewAddressRepository(db)
	userRepo := repository.NewUserRepository(db)
	v := NewFieldValidator()

	orders := NewOrderService(db, orderRepo, menuRepo, addrRepo, userRepo, v, rec)
	orders.Now = func() time.Time { return fixedNow }
	menus := NewMenuService(menuRepo, nil, time.Minute)
	menus.Now = func() time.Time { return fixedNow }

	return &fixture{
		db:       db,
		orders:   orders,
		menus:    menus,
		addrs:    NewAddressService(addrRepo, userRepo, v),
		events:   rec,
		customer: users[0].ID,
		other:    users[1].ID,
		staff:    users[2].ID,
		foods:    foods,
	}
}

// createOrder makes the two-line order used by most tests: 2 x Idli, 1 x Vada.
func (f *fixture) createOrder(t *testing.T) *entity.Order {
	t.Helper()
	o, err := f.orders.Create(context.Background(), f.customer, &CreateOrderReq{Items: []LineItemIn{
		{FoodItemID: f.foods[0].ID, Quantity: 2},
		{FoodItemID: f.foods[1].ID, Quantity: 1},
	}})
	require.NoError(t, err)
	return o
}

func (f *fixture) address(t *testing.T, userID uint) uint {
	t.Helper()
	a, err := f.addrs.Create(context.Background(), userID, &entity.Address{
		Line1: "12 MG Road", City: "Chennai", PostalCode: "600001",
	})
	require.NoError(t, err)
	return a.ID
}

func (f *fixture) place(t *testing.T, orderID uint) {
	t.Helper()
	_, err := f.orders.PlaceOrder(context.Background(), f.customer, orderID, &PlaceOrderReq{AddressID: f.address(t, f.customer)})
	require.NoError(t, err)
}

type recorder struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (r *recorder) Publish(_ context.Context, e events.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) last() events.OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return events.OrderEvent{}
	}
	return r.events[len(r.events)-1]
}

// memCache is an in-process cache.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (m *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	m.sets++
	return nil
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memCache) GenerateKey(operation, key string) string { return "test:" + operation + ":" + key }
