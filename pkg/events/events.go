// Package events carries order status changes to interested parties.
package events

import (
	"context"
	"errors"
	"time"
)

type OrderEvent struct {
	OrderID uint      `json:"orderId"`
	UserID  uint      `json:"userId"`
	From    string    `json:"from,omitempty"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e OrderEvent) error
}

type nop struct{}

func (nop) Publish(context.Context, OrderEvent) error { return nil }

// Nop drops every event.
func Nop() Publisher { return nop{} }

// Multi delivers to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e OrderEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
