package services

import (
	"errors"
	"fmt"

	"gerai/internal/models"
	"gerai/internal/repositories"
)

// Cart line actions accepted by ChangeLine.
const (
	CartActionIncrease = "increase"
	CartActionDecrease = "decrease"
	CartActionRemove   = "remove"
)

// CartService handles the session-scoped shopping cart: lazy creation on the
// first add, line mutations, and opportunistic binding to a customer once the
// session authenticates.
type CartService struct {
	cartRepo     repositories.CartRepository
	sessionRepo  repositories.SessionRepository
	productRepo  repositories.ProductRepository
	customerRepo repositories.CustomerRepository
}

// NewCartService creates a new CartService.
func NewCartService(
	cartRepo repositories.CartRepository,
	sessionRepo repositories.SessionRepository,
	productRepo repositories.ProductRepository,
	customerRepo repositories.CustomerRepository,
) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		sessionRepo:  sessionRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
	}
}

// ViewCart returns the session's open cart, or nil when the session has none.
// A missing cart is normal browsing state, not an error.
func (s *CartService) ViewCart(sessionID string) (*models.Cart, error) {
	cartID, err := s.sessionRepo.CartIDFor(sessionID)
	if err != nil {
		return nil, err
	}
	if cartID == "" {
		return nil, nil
	}
	return s.cartRepo.GetByID(cartID)
}

// AddToCart adds one unit of the product to the session's cart, creating and
// binding a fresh cart first when the session has none. Get-or-create is a
// single atomic step in the session repository, so concurrent first adds on
// the same session all land in one cart.
func (s *CartService) AddToCart(sessionID, productID string) (*models.Cart, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}

	cartID, err := s.sessionRepo.GetOrCreateCart(sessionID)
	if err != nil {
		return nil, err
	}
	return s.cartRepo.AddItem(cartID, product, 1)
}

// ChangeLine applies a cart action (increase, decrease, remove) to one line.
// With no open cart it is a no-op returning nil, mirroring ViewCart.
func (s *CartService) ChangeLine(sessionID, lineID, action string) (*models.Cart, error) {
	cartID, err := s.sessionRepo.CartIDFor(sessionID)
	if err != nil {
		return nil, err
	}
	if cartID == "" {
		return nil, nil
	}

	switch action {
	case CartActionIncrease:
		return s.cartRepo.AdjustLineQuantity(cartID, lineID, 1)
	case CartActionDecrease:
		return s.cartRepo.AdjustLineQuantity(cartID, lineID, -1)
	case CartActionRemove:
		return s.cartRepo.RemoveLine(cartID, lineID)
	default:
		return nil, models.FieldErrors{
			"action": fmt.Sprintf("must be one of %s, %s, %s", CartActionIncrease, CartActionDecrease, CartActionRemove),
		}
	}
}

// EmptyCart removes every line from the session's cart. A session without a
// cart is left alone.
func (s *CartService) EmptyCart(sessionID string) error {
	cartID, err := s.sessionRepo.CartIDFor(sessionID)
	if err != nil {
		return err
	}
	if cartID == "" {
		return nil
	}
	return s.cartRepo.Empty(cartID)
}

// BindCustomer attaches the session's open cart to the customer behind the
// authenticated user, if both exist. Idempotent; called on every request that
// touches the cart so an anonymous cart becomes attributable the moment its
// owner logs in.
func (s *CartService) BindCustomer(sessionID, userID string) error {
	if sessionID == "" || userID == "" {
		return nil
	}

	cartID, err := s.sessionRepo.CartIDFor(sessionID)
	if err != nil {
		return err
	}
	if cartID == "" {
		return nil
	}

	customer, err := s.customerRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Authenticated identity without a customer profile (an admin,
			// say) leaves the cart anonymous.
			return nil
		}
		return err
	}

	return s.cartRepo.BindCustomer(cartID, customer.ID)
}
