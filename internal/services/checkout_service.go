package services

import (
	"log"

	"gerai/internal/models"
	"gerai/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// CheckoutInput carries the shipping details submitted with the checkout form.
type CheckoutInput struct {
	OrderedBy       string `json:"ordered_by" validate:"required,min=2,max=200"`
	ShippingAddress string `json:"shipping_address" validate:"required,min=5,max=200"`
	Mobile          string `json:"mobile" validate:"required,min=7,max=20"`
	Email           string `json:"email" validate:"omitempty,email"`
}

// CheckoutService converts a session's open cart into an order.
type CheckoutService struct {
	orderRepo   repositories.OrderRepository
	sessionRepo repositories.SessionRepository
	events      EventPublisher
	validate    *validator.Validate
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	orderRepo repositories.OrderRepository,
	sessionRepo repositories.SessionRepository,
	events EventPublisher,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		sessionRepo: sessionRepo,
		events:      events,
		validate:    validator.New(),
	}
}

// Checkout snapshots the session's cart into a new order and clears the
// session binding so the next cart action starts fresh. The order's monetary
// fields are copied from the cart inside one transaction, so a concurrent
// second checkout either loses the race (models.ErrNoActiveCart) or never
// produces a duplicate order.
func (s *CheckoutService) Checkout(sessionID string, input CheckoutInput) (*models.Order, error) {
	cartID, err := s.sessionRepo.CartIDFor(sessionID)
	if err != nil {
		return nil, err
	}
	if cartID == "" {
		return nil, models.ErrNoActiveCart
	}

	if err := s.validate.Struct(input); err != nil {
		fieldErrors := models.FieldErrors{}
		for _, fieldError := range err.(validator.ValidationErrors) {
			fieldErrors[fieldError.Field()] = "failed on the '" + fieldError.Tag() + "' rule"
		}
		return nil, fieldErrors
	}

	order := &models.Order{
		OrderedBy:       input.OrderedBy,
		ShippingAddress: input.ShippingAddress,
		Mobile:          input.Mobile,
		Email:           input.Email,
	}
	if err := s.orderRepo.PlaceFromCart(sessionID, order); err != nil {
		return nil, err
	}

	if s.events != nil {
		payload := map[string]interface{}{
			"order_id": order.ID,
			"cart_id":  order.CartID,
			"total":    order.Total,
			"status":   order.OrderStatus,
		}
		if err := s.events.Publish("order.created", payload); err != nil {
			log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
		}
	}

	return order, nil
}
