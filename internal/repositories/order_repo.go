package repositories

import (
	"gerai/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// PlaceFromCart atomically snapshots the session's cart into the order and
	// clears the session binding. It fails with models.ErrNoActiveCart when the
	// session no longer points at the cart (a concurrent checkout won) and with
	// models.ErrEmptyCart when the cart total is zero.
	PlaceFromCart(sessionID string, order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByCustomer(customerID string) ([]models.Order, error)
	GetByStatus(status string) ([]models.Order, error)
	GetAll() ([]models.Order, error)
	UpdateStatus(id string, status string) error
}
