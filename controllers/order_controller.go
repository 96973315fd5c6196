package controllers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/Ram-SrinivasChandran/cos-spring-project/pkg/resp"
	"github.com/Ram-SrinivasChandran/cos-spring-project/services"
	"github.com/Ram-SrinivasChandran/cos-spring-project/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders    *services.OrderService
	Menus     *services.MenuService
	Addresses *services.AddressService
}

func NewOrderController(o *services.OrderService, m *services.MenuService, a *services.AddressService) *OrderController {
	return &OrderController{Orders: o, Menus: m, Addresses: a}
}

// actor is the token subject. A user-id query parameter, when given, must name the same user.
func actor(c *gin.Context) (uint, error) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		return 0, fmt.Errorf("not logged in: %w", services.ErrUnauthorized)
	}
	if q := c.Query("user-id"); q != "" {
		id, err := strconv.ParseUint(q, 10, 64)
		if err != nil || uint(id) != uid {
			return 0, fmt.Errorf("user-id does not match the token: %w", services.ErrUnauthorized)
		}
	}
	return uid, nil
}

func orderID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &services.ValidationError{Violations: []services.Violation{{
			Field: "id", Rule: "gt", Message: "the order id should be greater than zero",
		}}}
	}
	return uint(id), nil
}

// actorAndOrder resolves both and writes the error response itself.
func actorAndOrder(c *gin.Context) (uint, uint, bool) {
	uid, err := actor(c)
	if err != nil {
		resp.Error(c, err)
		return 0, 0, false
	}
	oid, err := orderID(c)
	if err != nil {
		resp.Error(c, err)
		return 0, 0, false
	}
	return uid, oid, true
}

// ===== Menus =====

// GET /orders/foodMenus
func (oc *OrderController) FoodMenus(c *gin.Context) {
	views, err := oc.Menus.TodayMenuViews(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, views)
}

// ===== Cart =====

// POST /orders
func (oc *OrderController) Create(c *gin.Context) {
	uid, err := actor(c)
	if err != nil {
		resp.Error(c, err)
		return
	}
	var req services.CreateOrderReq
	if !bindJSON(c, &req) {
		return
	}
	order, err := oc.Orders.Create(c.Request.Context(), uid, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, order)
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	uid, oid, ok := actorAndOrder(c)
	if !ok {
		return
	}
	view, err := oc.Orders.View(c.Request.Context(), uid, oid)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, view)
}

// PUT /orders/:id
func (oc *OrderController) Update(c *gin.Context) {
	uid, oid, ok := actorAndOrder(c)
	if !ok {
		return
	}
	var req services.UpdateOrderReq
	if !bindJSON(c, &req) {
		return
	}
	if err := oc.Orders.Update(c.Request.Context(), uid, oid, &req); err != nil {
		resp.Error(c, err)
		return
	}
	resp.NoContent(c)
}

// ===== Addresses =====

// POST /orders/address
func (oc *OrderController) CreateAddress(c *gin.Context) {
	uid, err := actor(c)
	if err != nil {
		resp.Error(c, err)
		return
	}
	var req entity.Address
	if !bindJSON(c, &req) {
		return
	}
	addr, err := oc.Addresses.Create(c.Request.Context(), uid, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, addr)
}

// GET /orders/address
func (oc *OrderController) ListAddresses(c *gin.Context) {
	uid, err := actor(c)
	if err != nil {
		resp.Error(c, err)
		return
	}
	list, err := oc.Addresses.List(c.Request.Context(), uid)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, list)
}

// ===== Status changes =====

// PUT /orders/placeOrder/:id
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	uid, oid, ok := actorAndOrder(c)
	if !ok {
		return
	}
	var req services.PlaceOrderReq
	if !bindJSON(c, &req) {
		return
	}
	view, err := oc.Orders.PlaceOrder(c.Request.Context(), uid, oid, &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, view)
}

// PUT /orders/cancelOrder/:id
func (oc *OrderController) CancelOrder(c *gin.Context) {
	oc.updateStatus(c, oc.Orders.CancelOrder)
}

// PUT /orders/orderPrepared/:id
func (oc *OrderController) OrderPrepared(c *gin.Context) {
	oc.updateStatus(c, oc.Orders.MarkPreparing)
}

// PUT /orders/pendingDelivery/:id
func (oc *OrderController) PendingDelivery(c *gin.Context) {
	oc.updateStatus(c, oc.Orders.MarkPendingDelivery)
}

// PUT /orders/orderDelivered/:id
func (oc *OrderController) OrderDelivered(c *gin.Context) {
	oc.updateStatus(c, oc.Orders.MarkDelivered)
}

type statusAction func(ctx context.Context, actorID, orderID uint) error

func (oc *OrderController) updateStatus(c *gin.Context, action statusAction) {
	uid, oid, ok := actorAndOrder(c)
	if !ok {
		return
	}
	if err := action(c.Request.Context(), uid, oid); err != nil {
		resp.Error(c, err)
		return
	}
	resp.NoContent(c)
}

// ===== Views =====

// GET /orders/activeOrders
func (oc *OrderController) ActiveOrders(c *gin.Context) {
	oc.listOrders(c, oc.Orders.ViewActiveOrders)
}

// GET /orders/cancelledOrders
func (oc *OrderController) CancelledOrders(c *gin.Context) {
	oc.listOrders(c, oc.Orders.ViewCancelledOrders)
}

// GET /orders/completedOrders
func (oc *OrderController) CompletedOrders(c *gin.Context) {
	oc.listOrders(c, oc.Orders.ViewCompletedOrders)
}

func (oc *OrderController) listOrders(c *gin.Context, list func(context.Context, uint) ([]services.OrderView, error)) {
	uid, err := actor(c)
	if err != nil {
		resp.Error(c, err)
		return
	}
	views, err := list(c.Request.Context(), uid)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, views)
}

// GET /orders/receivedOrder/:id
func (oc *OrderController) ReceivedOrder(c *gin.Context) {
	oc.orderInCategory(c, entity.ActiveStatuses)
}

// GET /orders/cancelledOrder/:id
func (oc *OrderController) CancelledOrder(c *gin.Context) {
	oc.orderInCategory(c, entity.CancelledStatuses)
}

// GET /orders/completedOrder/:id
func (oc *OrderController) CompletedOrder(c *gin.Context) {
	oc.orderInCategory(c, entity.CompletedStatuses)
}

func (oc *OrderController) orderInCategory(c *gin.Context, statuses []entity.OrderStatus) {
	uid, oid, ok := actorAndOrder(c)
	if !ok {
		return
	}
	view, err := oc.Orders.ViewInCategory(c.Request.Context(), uid, oid, statuses)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, view)
}
