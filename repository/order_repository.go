package repository

import (
	"time"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// WithTx returns a copy bound to tx, for use inside DB.Transaction.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: tx}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(o *entity.Order) error {
	return r.DB.Omit(clause.Associations).Create(o).Error
}

func (r *OrderRepository) GetOrder(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Preload("Address").First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListForUser returns the user's orders whose status is in statuses, newest first.
func (r *OrderRepository) ListForUser(userID uint, statuses []entity.OrderStatus) ([]entity.Order, error) {
	var out []entity.Order
	err := r.DB.Preload("Address").
		Where("user_id = ? AND status IN ?", userID, statuses).
		Order("id DESC").
		Find(&out).Error
	return out, err
}

// UpdateStatusGuard moves the order from one status to another only if it is
// still in from, stamping updated_at with at. Zero rows affected means the
// order was not in from.
func (r *OrderRepository) UpdateStatusGuard(orderID uint, from, to entity.OrderStatus, at time.Time, extra map[string]any) (int64, error) {
	updates := map[string]any{"status": to, "updated_at": at}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.DB.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// UpdateTotalGuard writes a new total only while the order is in status.
func (r *OrderRepository) UpdateTotalGuard(orderID uint, status entity.OrderStatus, total decimal.Decimal, at time.Time) (int64, error) {
	res := r.DB.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, status).
		Updates(map[string]any{"total_cost": total, "updated_at": at})
	return res.RowsAffected, res.Error
}

// ---------------- Order Items ----------------

func (r *OrderRepository) CreateOrderItem(oi *entity.OrderItem) error {
	return r.DB.Omit(clause.Associations).Create(oi).Error
}

func (r *OrderRepository) SaveOrderItem(oi *entity.OrderItem) error {
	return r.DB.Omit(clause.Associations).Save(oi).Error
}

// DeleteOrderItem removes the row for good so the (order, food item) slot is free again.
func (r *OrderRepository) DeleteOrderItem(id uint) error {
	return r.DB.Unscoped().Delete(&entity.OrderItem{}, id).Error
}

func (r *OrderRepository) GetOrderItems(orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.DB.Preload("FoodItem").
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}
