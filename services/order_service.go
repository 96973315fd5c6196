package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/Ram-SrinivasChandran/cos-spring-project/pkg/events"
	"github.com/Ram-SrinivasChandran/cos-spring-project/repository"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RoleChecker answers capability questions about a user. Unknown users have no capability.
type RoleChecker interface {
	IsCustomer(userID uint) (bool, error)
	IsStaff(userID uint) (bool, error)
}

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	MenuRepo *repository.MenuRepository
	AddrRepo *repository.AddressRepository
	Users    RoleChecker
	Validate FieldValidator
	Events   events.Publisher
	Now      func() time.Time
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	menuRepo *repository.MenuRepository,
	addrRepo *repository.AddressRepository,
	users RoleChecker,
	v FieldValidator,
	pub events.Publisher,
) *OrderService {
	if pub == nil {
		pub = events.Nop()
	}
	return &OrderService{
		DB: db, Repo: repo, MenuRepo: menuRepo, AddrRepo: addrRepo,
		Users: users, Validate: v, Events: pub, Now: time.Now,
	}
}

// ----- DTOs from Controller -----

type LineItemIn struct {
	FoodItemID uint `json:"foodItemId" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderReq struct {
	Items []LineItemIn `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderReq struct {
	Items []LineItemIn `json:"items" binding:"required,min=1,dive"`
}

// OrderedFoodItem is a food item as it appears on one order line.
type OrderedFoodItem struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	UnitCost decimal.Decimal `json:"unitCost"`
	Quantity int             `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
}

type OrderView struct {
	Order     entity.Order      `json:"order"`
	FoodItems []OrderedFoodItem `json:"foodItems"`
}

// ----- Create -----

// Create stores a new INCART order for userID with one line per distinct food item.
func (s *OrderService) Create(ctx context.Context, userID uint, req *CreateOrderReq) (*entity.Order, error) {
	ok, err := s.Users.IsCustomer(userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("user %d is not a customer: %w", userID, ErrUnauthorized)
	}

	lines, err := normalizeLines(req.Items)
	if err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	order := &entity.Order{UserID: userID, Status: entity.StatusInCart, TotalCost: decimal.Zero}
	order.CreatedAt, order.UpdatedAt = now, now
	if err := validateFields(s.Validate, order); err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		foods, err := s.loadFoodItems(tx, lines)
		if err != nil {
			return err
		}
		if err := repo.CreateOrder(order); err != nil {
			return err
		}

		total := decimal.Zero
		for _, l := range lines {
			food := foods[l.FoodItemID]
			oi, err := entity.NewOrderItem(order.ID, &food, l.Quantity)
			if err != nil {
				return err
			}
			if err := repo.CreateOrderItem(oi); err != nil {
				return err
			}
			total = total.Add(oi.Cost)
		}

		if _, err := repo.UpdateTotalGuard(order.ID, entity.StatusInCart, total, now); err != nil {
			return err
		}
		order.TotalCost = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order, "")
	return order, nil
}

// ----- Update -----

// Update reconciles the order's lines with items: lines whose food item is
// still wanted are updated in place, the rest are deleted, and new food items
// are inserted. Only the owner may edit, and only while the order is INCART.
func (s *OrderService) Update(ctx context.Context, actorID, orderID uint, req *UpdateOrderReq) error {
	if orderID == 0 {
		return invalid("orderId", "gt", "the order id should be greater than zero")
	}
	lines, err := normalizeLines(req.Items)
	if err != nil {
		return err
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		o, err := repo.GetOrder(orderID)
		if err != nil {
			return notFound(err, "order", orderID)
		}
		if o.UserID != actorID {
			return fmt.Errorf("order %d belongs to another user: %w", orderID, ErrUnauthorized)
		}
		if !o.Status.Editable() {
			return fmt.Errorf("order %d is %s and can no longer be edited: %w", orderID, o.Status, ErrInvalidState)
		}

		foods, err := s.loadFoodItems(tx, lines)
		if err != nil {
			return err
		}
		wanted := make(map[uint]LineItemIn, len(lines))
		for _, l := range lines {
			wanted[l.FoodItemID] = l
		}

		existing, err := repo.GetOrderItems(orderID)
		if err != nil {
			return err
		}
		kept := make(map[uint]bool, len(existing))
		for i := range existing {
			it := &existing[i]
			l, ok := wanted[it.FoodItemID]
			if !ok || kept[it.FoodItemID] {
				if err := repo.DeleteOrderItem(it.ID); err != nil {
					return err
				}
				continue
			}
			food := foods[l.FoodItemID]
			if err := it.SetQuantity(&food, l.Quantity); err != nil {
				return err
			}
			if err := repo.SaveOrderItem(it); err != nil {
				return err
			}
			kept[it.FoodItemID] = true
		}

		total := decimal.Zero
		for _, l := range lines {
			food := foods[l.FoodItemID]
			total = total.Add(entity.LineCost(food.Cost, l.Quantity))
			if kept[l.FoodItemID] {
				continue
			}
			oi, err := entity.NewOrderItem(orderID, &food, l.Quantity)
			if err != nil {
				return err
			}
			if err := repo.CreateOrderItem(oi); err != nil {
				return err
			}
		}

		n, err := repo.UpdateTotalGuard(orderID, entity.StatusInCart, total, s.Now().UTC())
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("order %d changed while it was being edited: %w", orderID, ErrInvalidState)
		}
		return nil
	})
}

// ----- Views -----

// View is the order detail. Callers other than the owner or staff get ErrNotFound.
func (s *OrderService) View(ctx context.Context, actorID, orderID uint) (*OrderView, error) {
	if orderID == 0 {
		return nil, invalid("orderId", "gt", "the order id should be greater than zero")
	}
	repo := s.Repo.WithTx(s.DB.WithContext(ctx))
	o, err := repo.GetOrder(orderID)
	if err != nil {
		return nil, notFound(err, "order", orderID)
	}
	if o.UserID != actorID {
		staff, err := s.Users.IsStaff(actorID)
		if err != nil {
			return nil, err
		}
		if !staff {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
	}
	return s.assemble(repo, *o)
}

// ViewInCategory is View restricted to orders whose status is in statuses.
func (s *OrderService) ViewInCategory(ctx context.Context, actorID, orderID uint, statuses []entity.OrderStatus) (*OrderView, error) {
	v, err := s.View(ctx, actorID, orderID)
	if err != nil {
		return nil, err
	}
	if !v.Order.Status.In(statuses) {
		return nil, fmt.Errorf("order %d is %s: %w", orderID, v.Order.Status, ErrNotFound)
	}
	return v, nil
}

func (s *OrderService) ViewActiveOrders(ctx context.Context, userID uint) ([]OrderView, error) {
	return s.listForUser(ctx, userID, entity.ActiveStatuses)
}

func (s *OrderService) ViewCancelledOrders(ctx context.Context, userID uint) ([]OrderView, error) {
	return s.listForUser(ctx, userID, entity.CancelledStatuses)
}

func (s *OrderService) ViewCompletedOrders(ctx context.Context, userID uint) ([]OrderView, error) {
	return s.listForUser(ctx, userID, entity.CompletedStatuses)
}

func (s *OrderService) listForUser(ctx context.Context, userID uint, statuses []entity.OrderStatus) ([]OrderView, error) {
	repo := s.Repo.WithTx(s.DB.WithContext(ctx))
	orders, err := repo.ListForUser(userID, statuses)
	if err != nil {
		return nil, err
	}
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v, err := s.assemble(repo, o)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *OrderService) assemble(repo *repository.OrderRepository, o entity.Order) (*OrderView, error) {
	items, err := repo.GetOrderItems(o.ID)
	if err != nil {
		return nil, err
	}
	foods := make([]OrderedFoodItem, 0, len(items))
	for _, it := range items {
		foods = append(foods, OrderedFoodItem{
			ID:       it.FoodItemID,
			Name:     it.FoodItem.Name,
			UnitCost: it.FoodItem.Cost,
			Quantity: it.Quantity,
			Cost:     it.Cost,
		})
	}
	return &OrderView{Order: o, FoodItems: foods}, nil
}

// ----- helpers -----

// normalizeLines checks each requested line and merges repeated food items
// by summing their quantities, keeping first-seen order.
func normalizeLines(items []LineItemIn) ([]LineItemIn, error) {
	if len(items) == 0 {
		return nil, invalid("items", "required", "at least one food item is required")
	}
	verr := &ValidationError{}
	out := make([]LineItemIn, 0, len(items))
	pos := make(map[uint]int, len(items))
	for i, it := range items {
		if it.FoodItemID == 0 {
			verr.Violations = append(verr.Violations, Violation{
				Field: fmt.Sprintf("items[%d].foodItemId", i), Rule: "required", Message: "foodItemId is required",
			})
			continue
		}
		if it.Quantity < 1 {
			verr.Violations = append(verr.Violations, Violation{
				Field: fmt.Sprintf("items[%d].quantity", i), Rule: "min", Message: entity.ErrInvalidQuantity.Error(),
			})
			continue
		}
		if p, ok := pos[it.FoodItemID]; ok {
			out[p].Quantity += it.Quantity
			continue
		}
		pos[it.FoodItemID] = len(out)
		out = append(out, it)
	}
	if len(verr.Violations) > 0 {
		return nil, verr
	}
	return out, nil
}

// loadFoodItems fetches and validates every food item referenced by lines.
func (s *OrderService) loadFoodItems(tx *gorm.DB, lines []LineItemIn) (map[uint]entity.FoodItem, error) {
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.FoodItemID)
	}
	foods, err := s.MenuRepo.WithTx(tx).FindFoodItems(ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		f, ok := foods[id]
		if !ok {
			return nil, fmt.Errorf("food item %d: %w", id, ErrNotFound)
		}
		if err := validateFields(s.Validate, &f); err != nil {
			return nil, err
		}
	}
	return foods, nil
}

// publish runs after commit; a failed publish does not undo the change.
func (s *OrderService) publish(ctx context.Context, o *entity.Order, from entity.OrderStatus) {
	e := events.OrderEvent{
		OrderID: o.ID,
		UserID:  o.UserID,
		From:    string(from),
		To:      string(o.Status),
		At:      o.UpdatedAt.UTC(),
	}
	if err := s.Events.Publish(ctx, e); err != nil && !errors.Is(err, context.Canceled) {
		logFor(ctx).WithError(err).WithFields(log.Fields{"orderId": o.ID, "to": o.Status}).Error("publish order event failed")
	}
}
