package models

import "time"

// Fulfillment states an order moves through. StatusReceived is the initial
// state; StatusCompleted and StatusCanceled are terminal.
const (
	StatusReceived   = "Order Received"
	StatusProcessing = "Order Processing"
	StatusOnTheWay   = "On The Way"
	StatusCompleted  = "Order Completed"
	StatusCanceled   = "Order Canceled"
)

// OrderStatuses lists every recognised status, in workflow order.
var OrderStatuses = []string{
	StatusReceived,
	StatusProcessing,
	StatusOnTheWay,
	StatusCompleted,
	StatusCanceled,
}

// ValidOrderStatus reports whether s is one of the recognised statuses.
func ValidOrderStatus(s string) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransition reports whether an order may move from one status to the next.
// The workflow is linear (Received -> Processing -> On The Way -> Completed)
// with cancellation allowed from any non-terminal state.
func CanTransition(from, to string) bool {
	if !ValidOrderStatus(from) || !ValidOrderStatus(to) {
		return false
	}
	if from == StatusCompleted || from == StatusCanceled {
		return false
	}
	if to == StatusCanceled {
		return true
	}
	switch from {
	case StatusReceived:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusOnTheWay
	case StatusOnTheWay:
		return to == StatusCompleted
	}
	return false
}

// Order is the immutable record produced by checkout. Its monetary fields are
// a point-in-time copy of the cart's total; only OrderStatus changes afterwards.
// CartID carries a unique index so a cart can be converted at most once.
type Order struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID          string    `json:"cart_id" gorm:"uniqueIndex;type:varchar(36)"`
	Cart            *Cart     `json:"cart,omitempty" gorm:"foreignKey:CartID"`
	OrderedBy       string    `json:"ordered_by"`
	ShippingAddress string    `json:"shipping_address"`
	Mobile          string    `json:"mobile"`
	Email           string    `json:"email,omitempty"`
	Subtotal        uint      `json:"subtotal"`
	Discount        uint      `json:"discount"`
	Total           uint      `json:"total"`
	OrderStatus     string    `json:"order_status"`
	CreatedAt       time.Time `json:"created_at"`
}
