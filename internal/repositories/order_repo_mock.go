package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gerai/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. It is
// constructed over the mock cart and session repositories so PlaceFromCart can
// mirror the transactional snapshot-and-clear behavior of the GORM version.
type MockOrderRepository struct {
	orders   map[string]*models.Order
	byCart   map[string]bool
	carts    *MockCartRepository
	sessions *MockSessionRepository
	mu       sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(carts *MockCartRepository, sessions *MockSessionRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]*models.Order),
		byCart:   make(map[string]bool),
		carts:    carts,
		sessions: sessions,
	}
}

// PlaceFromCart snapshots the session's cart into the order and clears the binding.
func (r *MockOrderRepository) PlaceFromCart(sessionID string, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cartID, _ := r.sessions.CartIDFor(sessionID)
	if cartID == "" {
		return models.ErrNoActiveCart
	}
	if r.byCart[cartID] {
		return models.ErrNoActiveCart
	}

	cart, err := r.carts.GetByID(cartID)
	if err != nil {
		return err
	}
	if cart.Total == 0 {
		return models.ErrEmptyCart
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CartID = cart.ID
	order.Subtotal = cart.Total
	order.Discount = 0
	order.Total = order.Subtotal - order.Discount
	order.OrderStatus = models.StatusReceived
	order.CreatedAt = time.Now()
	order.Cart = cart

	clone := *order
	r.orders[order.ID] = &clone
	r.byCart[cart.ID] = true
	return r.sessions.Clear(sessionID)
}

// GetByID returns the order, its cart refreshed from the cart repository.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, models.ErrNotFound)
	}
	clone := *order
	if cart, err := r.carts.GetByID(order.CartID); err == nil {
		clone.Cart = cart
	}
	return &clone, nil
}

func (r *MockOrderRepository) collect(match func(*models.Order) bool) []models.Order {
	orders := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if match(order) {
			clone := *order
			if cart, err := r.carts.GetByID(order.CartID); err == nil {
				clone.Cart = cart
			}
			orders = append(orders, clone)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

// GetByCustomer returns the customer's orders, newest first.
func (r *MockOrderRepository) GetByCustomer(customerID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(order *models.Order) bool {
		cart, err := r.carts.GetByID(order.CartID)
		return err == nil && cart.CustomerID == customerID
	}), nil
}

// GetByStatus returns every order currently in the given status, newest first.
func (r *MockOrderRepository) GetByStatus(status string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(order *models.Order) bool {
		return order.OrderStatus == status
	}), nil
}

// GetAll returns every order, newest first.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(*models.Order) bool { return true }), nil
}

// UpdateStatus sets the order's status.
func (r *MockOrderRepository) UpdateStatus(id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, models.ErrNotFound)
	}
	order.OrderStatus = status
	return nil
}
