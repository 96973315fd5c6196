package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) status(t *testing.T, orderID uint) entity.OrderStatus {
	t.Helper()
	var o entity.Order
	require.NoError(t, f.db.First(&o, orderID).Error)
	return o.Status
}

func TestOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.createOrder(t)
	addr := f.address(t, f.customer)

	v, err := f.orders.PlaceOrder(ctx, f.customer, o.ID, &PlaceOrderReq{AddressID: addr})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPlaced, v.Order.Status)
	require.NotNil(t, v.Order.AddressID)
	assert.Equal(t, addr, *v.Order.AddressID)
	assert.Len(t, v.FoodItems, 2)

	require.NoError(t, f.orders.MarkPreparing(ctx, f.staff, o.ID))
	assert.Equal(t, entity.StatusPreparing, f.status(t, o.ID))
	require.NoError(t, f.orders.MarkPendingDelivery(ctx, f.staff, o.ID))
	assert.Equal(t, entity.StatusPendingDelivery, f.status(t, o.ID))
	require.NoError(t, f.orders.MarkDelivered(ctx, f.staff, o.ID))
	assert.Equal(t, entity.StatusDelivered, f.status(t, o.ID))

	e := f.events.last()
	assert.Equal(t, string(entity.StatusPendingDelivery), e.From)
	assert.Equal(t, string(entity.StatusDelivered), e.To)
	assert.Equal(t, f.customer, e.UserID)

	// terminal
	assert.ErrorIs(t, f.orders.CancelOrder(ctx, f.customer, o.ID), ErrInvalidState)
	assert.ErrorIs(t, f.orders.CancelOrder(ctx, f.staff, o.ID), ErrInvalidState)
	assert.Equal(t, entity.StatusDelivered, f.status(t, o.ID))
}

func TestPlaceOrderTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.createOrder(t)
	f.place(t, o.ID)

	_, err := f.orders.PlaceOrder(ctx, f.customer, o.ID, &PlaceOrderReq{AddressID: f.address(t, f.customer)})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, entity.StatusPlaced, f.status(t, o.ID))
}

func TestPlaceOrderRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.createOrder(t)
	mine := f.address(t, f.customer)
	theirs := f.address(t, f.other)

	_, err := f.orders.PlaceOrder(ctx, f.customer, o.ID, &PlaceOrderReq{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.orders.PlaceOrder(ctx, f.customer, o.ID, &PlaceOrderReq{AddressID: theirs})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.orders.PlaceOrder(ctx, f.other, o.ID, &PlaceOrderReq{AddressID: theirs})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.orders.PlaceOrder(ctx, f.customer, 404, &PlaceOrderReq{AddressID: mine})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, entity.StatusInCart, f.status(t, o.ID))
}

func TestStaffTransitionsRequireStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.createOrder(t)
	f.place(t, o.ID)

	assert.ErrorIs(t, f.orders.MarkPreparing(ctx, f.customer, o.ID), ErrUnauthorized)
	assert.Equal(t, entity.StatusPlaced, f.status(t, o.ID))
}

func TestTransitionsOutOfOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.createOrder(t)

	assert.ErrorIs(t, f.orders.MarkPreparing(ctx, f.staff, o.ID), ErrInvalidState)
	assert.ErrorIs(t, f.orders.MarkDelivered(ctx, f.staff, o.ID), ErrInvalidState)

	f.place(t, o.ID)
	assert.ErrorIs(t, f.orders.MarkPendingDelivery(ctx, f.staff, o.ID), ErrInvalidState)
	assert.ErrorIs(t, f.orders.MarkDelivered(ctx, f.staff, o.ID), ErrInvalidState)
	assert.Equal(t, entity.StatusPlaced, f.status(t, o.ID))

	assert.ErrorIs(t, f.orders.MarkPreparing(ctx, f.staff, 0), ErrValidation)
	assert.ErrorIs(t, f.orders.MarkPreparing(ctx, f.staff, 777), ErrNotFound)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine := f.createOrder(t)
	assert.ErrorIs(t, f.orders.CancelOrder(ctx, f.other, mine.ID), ErrUnauthorized)
	require.NoError(t, f.orders.CancelOrder(ctx, f.customer, mine.ID))
	assert.Equal(t, entity.StatusCancelled, f.status(t, mine.ID))
	assert.ErrorIs(t, f.orders.CancelOrder(ctx, f.customer, mine.ID), ErrInvalidState)

	kitchen := f.createOrder(t)
	f.place(t, kitchen.ID)
	require.NoError(t, f.orders.MarkPreparing(ctx, f.staff, kitchen.ID))
	require.NoError(t, f.orders.CancelOrder(ctx, f.staff, kitchen.ID))
	assert.Equal(t, entity.StatusCancelled, f.status(t, kitchen.ID))

	e := f.events.last()
	assert.Equal(t, string(entity.StatusPreparing), e.From)
	assert.Equal(t, string(entity.StatusCancelled), e.To)
}

func TestConcurrentPlaceOrderHasOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.createOrder(t)
	addr := f.address(t, f.customer)

	const n = 5
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.orders.PlaceOrder(ctx, f.customer, o.ID, &PlaceOrderReq{AddressID: addr})
		}()
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidState)
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, entity.StatusPlaced, f.status(t, o.ID))
}

func TestTransitionsUseServiceClock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.createOrder(t)
	assert.True(t, fixedNow.Equal(o.UpdatedAt), o.UpdatedAt.String())

	placedAt := fixedNow.Add(time.Hour)
	f.orders.Now = func() time.Time { return placedAt }
	f.place(t, o.ID)

	var row entity.Order
	require.NoError(t, f.db.First(&row, o.ID).Error)
	assert.True(t, placedAt.Equal(row.UpdatedAt), row.UpdatedAt.String())
	assert.True(t, fixedNow.Equal(row.CreatedAt), row.CreatedAt.String())
	assert.True(t, placedAt.Equal(f.events.last().At))

	editedAt := placedAt.Add(time.Minute)
	f.orders.Now = func() time.Time { return editedAt }
	other := f.createOrder(t)
	require.NoError(t, f.orders.Update(ctx, f.customer, other.ID, &UpdateOrderReq{Items: []LineItemIn{{FoodItemID: f.foods[2].ID, Quantity: 1}}}))
	require.NoError(t, f.db.First(&row, other.ID).Error)
	assert.True(t, editedAt.Equal(row.UpdatedAt), row.UpdatedAt.String())
}
