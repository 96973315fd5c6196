// services/order_transitions.go
package services

import (
	"context"
	"fmt"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"gorm.io/gorm"
)

type PlaceOrderReq struct {
	AddressID uint `json:"addressId" binding:"required"`
}

// guard authorizes a transition on the loaded order and may return extra
// columns to write together with the new status.
type guard func(tx *gorm.DB, o *entity.Order) (map[string]any, error)

// ----- Customer actions -----

// PlaceOrder moves the owner's INCART order to PLACED and attaches one of the owner's addresses.
func (s *OrderService) PlaceOrder(ctx context.Context, actorID, orderID uint, req *PlaceOrderReq) (*OrderView, error) {
	if req.AddressID == 0 {
		return nil, invalid("addressId", "required", "addressId is required")
	}
	_, err := s.transition(ctx, orderID, entity.StatusPlaced, func(tx *gorm.DB, o *entity.Order) (map[string]any, error) {
		if o.UserID != actorID {
			return nil, fmt.Errorf("order %d belongs to another user: %w", o.ID, ErrUnauthorized)
		}
		if !o.Status.CanTransition(entity.StatusPlaced) {
			return nil, nil
		}
		addr, err := s.AddrRepo.WithTx(tx).FindForUser(o.UserID, req.AddressID)
		if err != nil {
			return nil, notFound(err, "address", req.AddressID)
		}
		return map[string]any{"address_id": addr.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, actorID, orderID)
}

// CancelOrder is allowed for the owner and for staff, from any non-terminal state.
func (s *OrderService) CancelOrder(ctx context.Context, actorID, orderID uint) error {
	staff, err := s.Users.IsStaff(actorID)
	if err != nil {
		return err
	}
	_, err = s.transition(ctx, orderID, entity.StatusCancelled, func(_ *gorm.DB, o *entity.Order) (map[string]any, error) {
		if o.UserID != actorID && !staff {
			return nil, fmt.Errorf("order %d belongs to another user: %w", o.ID, ErrUnauthorized)
		}
		return nil, nil
	})
	return err
}

// ----- Staff actions -----

func (s *OrderService) MarkPreparing(ctx context.Context, actorID, orderID uint) error {
	return s.staffTransition(ctx, actorID, orderID, entity.StatusPreparing)
}

func (s *OrderService) MarkPendingDelivery(ctx context.Context, actorID, orderID uint) error {
	return s.staffTransition(ctx, actorID, orderID, entity.StatusPendingDelivery)
}

func (s *OrderService) MarkDelivered(ctx context.Context, actorID, orderID uint) error {
	return s.staffTransition(ctx, actorID, orderID, entity.StatusDelivered)
}

func (s *OrderService) staffTransition(ctx context.Context, actorID, orderID uint, to entity.OrderStatus) error {
	staff, err := s.Users.IsStaff(actorID)
	if err != nil {
		return err
	}
	if !staff {
		return fmt.Errorf("user %d is not staff: %w", actorID, ErrUnauthorized)
	}
	_, err = s.transition(ctx, orderID, to, nil)
	return err
}

// ----- Helper -----

// transition re-reads the order inside a transaction, runs check, and moves
// it to `to` with a compare-and-set on the status it was read in. If another
// request moved the order first, the update matches no row and the caller
// gets ErrInvalidState.
func (s *OrderService) transition(ctx context.Context, orderID uint, to entity.OrderStatus, check guard) (*entity.Order, error) {
	if orderID == 0 {
		return nil, invalid("orderId", "gt", "the order id should be greater than zero")
	}

	var order *entity.Order
	var from entity.OrderStatus
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repo.WithTx(tx)
		o, err := repo.GetOrder(orderID)
		if err != nil {
			return notFound(err, "order", orderID)
		}

		var extra map[string]any
		if check != nil {
			if extra, err = check(tx, o); err != nil {
				return err
			}
		}
		if !o.Status.CanTransition(to) {
			return fmt.Errorf("order %d cannot move from %s to %s: %w", orderID, o.Status, to, ErrInvalidState)
		}

		at := s.Now().UTC()
		n, err := repo.UpdateStatusGuard(o.ID, o.Status, to, at, extra)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("order %d is no longer %s: %w", orderID, o.Status, ErrInvalidState)
		}
		from, o.Status, o.UpdatedAt = o.Status, to, at
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order, from)
	return order, nil
}
