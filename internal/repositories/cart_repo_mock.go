package repositories

import (
	"fmt"
	"sync"

	"gerai/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository. It
// applies the same line/total arithmetic as the GORM implementation, which
// makes it useful for exercising cart behavior without a database.
type MockCartRepository struct {
	carts map[string]*models.Cart
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]*models.Cart),
	}
}

func copyCart(cart *models.Cart) *models.Cart {
	clone := *cart
	clone.Lines = make([]models.CartLine, len(cart.Lines))
	copy(clone.Lines, cart.Lines)
	return &clone
}

// GetByID returns a copy of the cart with its lines.
func (r *MockCartRepository) GetByID(id string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[id]
	if !ok {
		return nil, fmt.Errorf("cart with ID %s: %w", id, models.ErrNotFound)
	}
	return copyCart(cart), nil
}

// Create adds a new cart.
func (r *MockCartRepository) Create(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	r.carts[cart.ID] = copyCart(cart)
	return nil
}

// AddItem adds quantity units of the product to the cart.
func (r *MockCartRepository) AddItem(cartID string, product *models.Product, quantity uint) (*models.Cart, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("cart with ID %s: %w", cartID, models.ErrNotFound)
	}

	for i := range cart.Lines {
		if cart.Lines[i].ProductID == product.ID {
			added := quantity * cart.Lines[i].Rate
			cart.Lines[i].Quantity += quantity
			cart.Lines[i].Subtotal += added
			cart.Total += added
			return copyCart(cart), nil
		}
	}

	line := models.CartLine{
		ID:        uuid.New().String(),
		CartID:    cartID,
		ProductID: product.ID,
		Rate:      product.SellingPrice,
		Quantity:  quantity,
		Subtotal:  quantity * product.SellingPrice,
	}
	cart.Lines = append(cart.Lines, line)
	cart.Total += line.Subtotal
	return copyCart(cart), nil
}

// AdjustLineQuantity applies delta to the line, deleting it at quantity zero.
func (r *MockCartRepository) AdjustLineQuantity(cartID, lineID string, delta int) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("cart with ID %s: %w", cartID, models.ErrNotFound)
	}

	for i := range cart.Lines {
		if cart.Lines[i].ID != lineID {
			continue
		}

		line := &cart.Lines[i]
		if delta < 0 && uint(-delta) > line.Quantity {
			return nil, fmt.Errorf("cannot decrease line %s below zero", lineID)
		}

		if delta >= 0 {
			step := uint(delta) * line.Rate
			line.Quantity += uint(delta)
			line.Subtotal += step
			cart.Total += step
		} else {
			step := uint(-delta) * line.Rate
			line.Quantity -= uint(-delta)
			line.Subtotal -= step
			cart.Total -= step
		}

		if line.Quantity == 0 {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
		}
		return copyCart(cart), nil
	}
	return nil, fmt.Errorf("cart line with ID %s: %w", lineID, models.ErrNotFound)
}

// RemoveLine deletes the line and subtracts its subtotal from the total.
func (r *MockCartRepository) RemoveLine(cartID, lineID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("cart with ID %s: %w", cartID, models.ErrNotFound)
	}

	for i := range cart.Lines {
		if cart.Lines[i].ID == lineID {
			cart.Total -= cart.Lines[i].Subtotal
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			return copyCart(cart), nil
		}
	}
	return nil, fmt.Errorf("cart line with ID %s: %w", lineID, models.ErrNotFound)
}

// Empty removes every line and resets the total.
func (r *MockCartRepository) Empty(cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return fmt.Errorf("cart with ID %s: %w", cartID, models.ErrNotFound)
	}
	cart.Lines = nil
	cart.Total = 0
	return nil
}

// BindCustomer attaches the customer to the cart.
func (r *MockCartRepository) BindCustomer(cartID, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return fmt.Errorf("cart with ID %s: %w", cartID, models.ErrNotFound)
	}
	cart.CustomerID = customerID
	return nil
}

// MockSessionRepository is an in-memory implementation of SessionRepository.
// It holds the cart repository so GetOrCreateCart can run as one critical
// section, matching the transactional GORM implementation.
type MockSessionRepository struct {
	bindings map[string]string
	carts    *MockCartRepository
	mu       sync.RWMutex
}

// NewMockSessionRepository creates a new instance of MockSessionRepository.
func NewMockSessionRepository(carts *MockCartRepository) *MockSessionRepository {
	return &MockSessionRepository{
		bindings: make(map[string]string),
		carts:    carts,
	}
}

// CartIDFor returns the cart bound to the session, or "".
func (r *MockSessionRepository) CartIDFor(sessionID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bindings[sessionID], nil
}

// GetOrCreateCart returns the session's cart, creating and binding one under
// the lock when the session has none, so concurrent first adds share a cart.
func (r *MockSessionRepository) GetOrCreateCart(sessionID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cartID := r.bindings[sessionID]; cartID != "" {
		return cartID, nil
	}
	cart := &models.Cart{}
	if err := r.carts.Create(cart); err != nil {
		return "", err
	}
	r.bindings[sessionID] = cart.ID
	return cart.ID, nil
}

// Bind points the session at the cart.
func (r *MockSessionRepository) Bind(sessionID, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[sessionID] = cartID
	return nil
}

// Clear removes the session binding.
func (r *MockSessionRepository) Clear(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, sessionID)
	return nil
}
