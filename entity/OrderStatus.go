package entity

type OrderStatus string

const (
	StatusInCart          OrderStatus = "INCART"
	StatusPlaced          OrderStatus = "PLACED"
	StatusPreparing       OrderStatus = "PREPARING"
	StatusPendingDelivery OrderStatus = "PENDING_DELIVERY"
	StatusDelivered       OrderStatus = "DELIVERED"
	StatusCancelled       OrderStatus = "CANCELLED"
)

var (
	ActiveStatuses    = []OrderStatus{StatusInCart, StatusPlaced, StatusPreparing, StatusPendingDelivery}
	CancelledStatuses = []OrderStatus{StatusCancelled}
	CompletedStatuses = []OrderStatus{StatusDelivered}
)

// forward path; CANCELLED is handled separately
var nextStatus = map[OrderStatus]OrderStatus{
	StatusInCart:          StatusPlaced,
	StatusPlaced:          StatusPreparing,
	StatusPreparing:       StatusPendingDelivery,
	StatusPendingDelivery: StatusDelivered,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusInCart, StatusPlaced, StatusPreparing, StatusPendingDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Editable reports whether line items may still be changed.
func (s OrderStatus) Editable() bool { return s == StatusInCart }

// CanTransition reports whether an order in s may move to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if next == StatusCancelled {
		return s.Valid() && !s.Terminal()
	}
	to, ok := nextStatus[s]
	return ok && to == next
}

func (s OrderStatus) In(set []OrderStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
