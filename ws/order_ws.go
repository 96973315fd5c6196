package ws

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Ram-SrinivasChandran/cos-spring-project/pkg/events"
	"github.com/Ram-SrinivasChandran/cos-spring-project/pkg/resp"
	"github.com/Ram-SrinivasChandran/cos-spring-project/services"
	"github.com/Ram-SrinivasChandran/cos-spring-project/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// writeWait bounds each write so a client that stops reading cannot stall the hub.
const writeWait = 5 * time.Second

// ErrHubBusy is returned by Publish when the broadcast queue is full. The event is dropped.
var ErrHubBusy = errors.New("order hub busy, event dropped")

// OrderHub pushes order status events to websocket clients following that order.
type OrderHub struct {
	clients    map[uint]map[*websocket.Conn]bool // orderID -> connections
	broadcast  chan events.OrderEvent
	register   chan Subscription
	unregister chan Subscription
	done       chan struct{}
	mu         sync.Mutex
	orders     *services.OrderService
}

type Subscription struct {
	Conn    *websocket.Conn
	OrderID uint
	UserID  uint
}

func NewOrderHub(orders *services.OrderService) *OrderHub {
	return &OrderHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan events.OrderEvent, 64),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		done:       make(chan struct{}),
		orders:     orders,
	}
}

// SetOrders wires the service after construction; the service publishes into the hub.
func (h *OrderHub) SetOrders(orders *services.OrderService) { h.orders = orders }

// Run serves register/unregister/broadcast until ctx is done.
func (h *OrderHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.OrderID] == nil {
				h.clients[sub.OrderID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.OrderID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.OrderID][sub.Conn]; ok {
				delete(h.clients[sub.OrderID], sub.Conn)
				if len(h.clients[sub.OrderID]) == 0 {
					delete(h.clients, sub.OrderID)
				}
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case e := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[e.OrderID] {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(e); err != nil {
					log.WithError(err).WithField("orderId", e.OrderID).Warn("ws write failed")
					conn.Close()
					delete(h.clients[e.OrderID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *OrderHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conns := range h.clients {
		for conn := range conns {
			conn.Close()
		}
		delete(h.clients, id)
	}
}

// Publish queues e for broadcast without waiting. Live updates are best
// effort: with the queue full the event is dropped and ErrHubBusy returned.
func (h *OrderHub) Publish(ctx context.Context, e events.OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-h.done:
		return nil
	default:
	}
	select {
	case h.broadcast <- e:
		return nil
	default:
		return ErrHubBusy
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/orders/:id
func (h *OrderHub) HandleWebSocket(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		resp.BadRequest(c, "the order id should be greater than zero")
		return
	}
	userID := utils.CurrentUserID(c)

	// owner or staff only
	view, err := h.orders.View(c.Request.Context(), userID, uint(orderID))
	if err != nil {
		resp.Error(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("ws upgrade failed")
		return
	}

	// current state first, then live changes
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(events.OrderEvent{
		OrderID: view.Order.ID, UserID: view.Order.UserID, To: string(view.Order.Status), At: view.Order.UpdatedAt,
	}); err != nil {
		conn.Close()
		return
	}

	sub := Subscription{Conn: conn, OrderID: view.Order.ID, UserID: userID}
	select {
	case h.register <- sub:
		go h.drain(sub)
	case <-h.done:
		conn.Close()
	}
}

// drain reads until the client goes away; clients do not send anything meaningful.
func (h *OrderHub) drain(sub Subscription) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
