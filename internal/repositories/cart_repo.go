package repositories

import (
	"gerai/internal/models"
)

// CartRepository defines the interface for cart data access. Every mutation
// keeps the cart total and the sum of the line subtotals consistent; the GORM
// implementation runs each one in a single transaction with the cart row
// locked, so concurrent mutations of the same cart serialize.
type CartRepository interface {
	GetByID(id string) (*models.Cart, error)
	Create(cart *models.Cart) error
	// AddItem adds quantity units of the product to the cart. An existing line
	// for the product is incremented; otherwise a new line is created with the
	// product's current selling price as its rate.
	AddItem(cartID string, product *models.Product, quantity uint) (*models.Cart, error)
	// AdjustLineQuantity applies delta (+1/-1) to the line's quantity and
	// delta*rate to both the line subtotal and the cart total. A line reaching
	// quantity zero is deleted. Decreasing below zero is an error.
	AdjustLineQuantity(cartID, lineID string, delta int) (*models.Cart, error)
	// RemoveLine deletes the line and subtracts its subtotal from the cart total.
	RemoveLine(cartID, lineID string) (*models.Cart, error)
	// Empty deletes every line and resets the total to zero.
	Empty(cartID string) error
	// BindCustomer attaches the customer to the cart. A no-op when the cart is
	// already bound to that customer.
	BindCustomer(cartID, customerID string) error
}

// SessionRepository maps opaque session tokens to their open cart.
type SessionRepository interface {
	// CartIDFor returns the cart bound to the session, or "" when none.
	CartIDFor(sessionID string) (string, error)
	// GetOrCreateCart returns the session's cart ID, atomically creating and
	// binding a fresh cart when the session has none yet. Concurrent calls for
	// the same session all land on the same cart.
	GetOrCreateCart(sessionID string) (string, error)
	Bind(sessionID, cartID string) error
	// Clear removes the binding without touching the cart record itself.
	Clear(sessionID string) error
}
