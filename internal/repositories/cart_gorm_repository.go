package repositories

import (
	"fmt"

	"gerai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository. Each mutation
// runs in one transaction with the cart row locked FOR UPDATE, so the cart
// total and its line subtotals can never be observed out of step and two
// concurrent mutations of the same cart serialize.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// lockForUpdate adds a row-level lock where the dialect supports it. SQLite
// has no FOR UPDATE; its single-writer model serializes writers anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func lockedCart(tx *gorm.DB, cartID string) (*models.Cart, error) {
	var cart models.Cart
	if err := lockForUpdate(tx).First(&cart, "id = ?", cartID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart with ID %s: %w", cartID, models.ErrNotFound)
		}
		return nil, err
	}
	return &cart, nil
}

// GetByID retrieves a cart with its lines and their products.
func (r *GORMCartRepository) GetByID(id string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Lines.Product").Preload("Customer").First(&cart, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart by ID %s: %w", id, err)
	}
	return &cart, nil
}

// Create persists a new, empty cart.
func (r *GORMCartRepository) Create(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if err := r.db.Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// AddItem adds quantity units of the product to the cart. An existing line for
// the product keeps its original rate and grows by quantity*rate; a new line
// captures the product's current selling price as its rate.
func (r *GORMCartRepository) AddItem(cartID string, product *models.Product, quantity uint) (*models.Cart, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		cart, err := lockedCart(tx, cartID)
		if err != nil {
			return err
		}

		var line models.CartLine
		err = tx.First(&line, "cart_id = ? AND product_id = ?", cartID, product.ID).Error
		switch {
		case err == nil:
			added := quantity * line.Rate
			line.Quantity += quantity
			line.Subtotal += added
			if err := tx.Save(&line).Error; err != nil {
				return err
			}
			cart.Total += added
		case err == gorm.ErrRecordNotFound:
			line = models.CartLine{
				ID:        uuid.New().String(),
				CartID:    cartID,
				ProductID: product.ID,
				Rate:      product.SellingPrice,
				Quantity:  quantity,
				Subtotal:  quantity * product.SellingPrice,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
			cart.Total += line.Subtotal
		default:
			return err
		}

		return tx.Model(&models.Cart{}).Where("id = ?", cartID).
			Update("total", cart.Total).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add product %s to cart %s: %w", product.ID, cartID, err)
	}
	return r.GetByID(cartID)
}

// AdjustLineQuantity applies delta to the line and delta*rate to both the line
// subtotal and the cart total. The line is deleted when its quantity hits zero.
func (r *GORMCartRepository) AdjustLineQuantity(cartID, lineID string, delta int) (*models.Cart, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		cart, err := lockedCart(tx, cartID)
		if err != nil {
			return err
		}

		var line models.CartLine
		if err := tx.First(&line, "id = ? AND cart_id = ?", lineID, cartID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("cart line with ID %s: %w", lineID, models.ErrNotFound)
			}
			return err
		}

		if delta < 0 && uint(-delta) > line.Quantity {
			return fmt.Errorf("cannot decrease line %s below zero", lineID)
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
			if err := tx.Delete(&line).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Save(&line).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Cart{}).Where("id = ?", cartID).
			Update("total", cart.Total).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to adjust line %s in cart %s: %w", lineID, cartID, err)
	}
	return r.GetByID(cartID)
}

// RemoveLine deletes the line and subtracts its subtotal from the cart total.
func (r *GORMCartRepository) RemoveLine(cartID, lineID string) (*models.Cart, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		cart, err := lockedCart(tx, cartID)
		if err != nil {
			return err
		}

		var line models.CartLine
		if err := tx.First(&line, "id = ? AND cart_id = ?", lineID, cartID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("cart line with ID %s: %w", lineID, models.ErrNotFound)
			}
			return err
		}

		if err := tx.Delete(&line).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("id = ?", cartID).
			Update("total", cart.Total-line.Subtotal).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove line %s from cart %s: %w", lineID, cartID, err)
	}
	return r.GetByID(cartID)
}

// Empty deletes every line and resets the total to zero. The cart stays open.
func (r *GORMCartRepository) Empty(cartID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockedCart(tx, cartID); err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("id = ?", cartID).
			Update("total", 0).Error
	})
	if err != nil {
		return fmt.Errorf("failed to empty cart %s: %w", cartID, err)
	}
	return nil
}

// BindCustomer attaches the customer to the cart. Safe to call repeatedly.
func (r *GORMCartRepository) BindCustomer(cartID, customerID string) error {
	res := r.db.Model(&models.Cart{}).Where("id = ?", cartID).
		Update("customer_id", customerID)
	if res.Error != nil {
		return fmt.Errorf("failed to bind customer %s to cart %s: %w", customerID, cartID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart with ID %s: %w", cartID, models.ErrNotFound)
	}
	return nil
}

// GORMSessionRepository is a GORM implementation of SessionRepository. The
// binding lives in the database so checkout can clear it in the same
// transaction that creates the order.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{
		db: db,
	}
}

// CartIDFor returns the cart bound to the session, or "" when there is none.
func (r *GORMSessionRepository) CartIDFor(sessionID string) (string, error) {
	var session models.CartSession
	if err := r.db.First(&session, "session_id = ?", sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up session %s: %w", sessionID, err)
	}
	return session.CartID, nil
}

// GetOrCreateCart returns the session's cart, creating and binding a fresh one
// when the session has none yet, all in one transaction. Of two concurrent
// first adds, the loser's insert hits the session primary key and rolls its
// cart back with it, so both calls end up on the winner's cart.
func (r *GORMSessionRepository) GetOrCreateCart(sessionID string) (string, error) {
	cartID, err := r.getOrCreateCart(sessionID)
	if err != nil {
		// A concurrent request may have bound the session between our read and
		// our insert; the duplicate key rolled everything back, so read again.
		cartID, err = r.getOrCreateCart(sessionID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get or create cart for session %s: %w", sessionID, err)
	}
	return cartID, nil
}

func (r *GORMSessionRepository) getOrCreateCart(sessionID string) (string, error) {
	var cartID string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var session models.CartSession
		err := lockForUpdate(tx).First(&session, "session_id = ?", sessionID).Error
		if err == nil {
			cartID = session.CartID
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		cart := models.Cart{ID: uuid.New().String()}
		if err := tx.Create(&cart).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.CartSession{SessionID: sessionID, CartID: cart.ID}).Error; err != nil {
			return err
		}
		cartID = cart.ID
		return nil
	})
	return cartID, err
}

// Bind points the session at the cart, replacing any previous binding.
func (r *GORMSessionRepository) Bind(sessionID, cartID string) error {
	session := models.CartSession{SessionID: sessionID, CartID: cartID}
	if err := r.db.Save(&session).Error; err != nil {
		return fmt.Errorf("failed to bind session %s to cart %s: %w", sessionID, cartID, err)
	}
	return nil
}

// Clear removes the session binding. The cart record itself is untouched.
func (r *GORMSessionRepository) Clear(sessionID string) error {
	if err := r.db.Delete(&models.CartSession{}, "session_id = ?", sessionID).Error; err != nil {
		return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
	}
	return nil
}
