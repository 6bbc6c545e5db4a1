package repositories

import (
	"fmt"

	"gerai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// PlaceFromCart snapshots the session's cart into the order and clears the
// session binding, all in one transaction. The session row is read under lock,
// so of two concurrent checkouts the second finds the binding gone and gets
// models.ErrNoActiveCart; the unique index on orders.cart_id backstops the
// one-order-per-cart rule either way.
func (r *GORMOrderRepository) PlaceFromCart(sessionID string, order *models.Order) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var session models.CartSession
		err := lockForUpdate(tx).First(&session, "session_id = ?", sessionID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return models.ErrNoActiveCart
			}
			return err
		}

		cart, err := lockedCart(tx, session.CartID)
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
		order.Discount = 0 // hook for future promotions
		order.Total = order.Subtotal - order.Discount
		order.OrderStatus = models.StatusReceived

		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CartSession{}, "session_id = ?", sessionID).Error
	})
	if err != nil {
		if err == models.ErrNoActiveCart || err == models.ErrEmptyCart {
			return err
		}
		return fmt.Errorf("failed to place order for session %s: %w", sessionID, err)
	}
	return nil
}

// GetByID retrieves an order with its frozen cart, lines and owning customer.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Cart").
		Preload("Cart.Customer").
		Preload("Cart.Lines.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByCustomer retrieves the customer's orders, newest first.
func (r *GORMOrderRepository) GetByCustomer(customerID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Joins("JOIN carts ON carts.id = orders.cart_id").
		Where("carts.customer_id = ?", customerID).
		Order("orders.created_at DESC").
		Preload("Cart.Lines.Product").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for customer %s: %w", customerID, err)
	}
	return orders, nil
}

// GetByStatus retrieves every order currently in the given status, newest first.
func (r *GORMOrderRepository) GetByStatus(status string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("order_status = ?", status).
		Order("created_at DESC").
		Preload("Cart.Customer").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders with status %q: %w", status, err)
	}
	return orders, nil
}

// GetAll retrieves every order, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Order("created_at DESC").Preload("Cart.Customer").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets the order's status.
func (r *GORMOrderRepository) UpdateStatus(id string, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).
		Update("order_status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s: %w", id, models.ErrNotFound)
	}
	return nil
}
