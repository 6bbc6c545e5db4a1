package services

import (
	"fmt"
	"log"

	"gerai/internal/models"
	"gerai/internal/repositories"
)

// OrderService handles the post-checkout order lifecycle: who may see an
// order and how its fulfillment status moves.
type OrderService struct {
	orderRepo repositories.OrderRepository
	events    EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		events:    events,
	}
}

// MyOrders retrieves the customer's own orders, newest first.
func (s *OrderService) MyOrders(customerID string) ([]models.Order, error) {
	return s.orderRepo.GetByCustomer(customerID)
}

// OrderDetail retrieves one order on behalf of a customer. Customers may only
// see orders whose originating cart they own; anything else is
// models.ErrForbidden, so callers can deny without confirming the order exists.
func (s *OrderService) OrderDetail(customerID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Cart == nil || order.Cart.CustomerID == "" || order.Cart.CustomerID != customerID {
		return nil, fmt.Errorf("order %s does not belong to customer %s: %w", orderID, customerID, models.ErrForbidden)
	}
	return order, nil
}

// PendingOrders retrieves the orders still waiting for processing.
func (s *OrderService) PendingOrders() ([]models.Order, error) {
	return s.orderRepo.GetByStatus(models.StatusReceived)
}

// AllOrders retrieves every order, newest first.
func (s *OrderService) AllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrder retrieves one order without an ownership check, for administrators.
func (s *OrderService) GetOrder(orderID string) (*models.Order, error) {
	return s.orderRepo.GetByID(orderID)
}

// ChangeStatus moves an order to a new fulfillment status. Unknown values and
// moves the workflow does not allow fail with models.ErrInvalidStatus and
// leave the stored status untouched. Setting the current status again is a
// no-op, so retried requests stay safe.
func (s *OrderService) ChangeStatus(orderID, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%q: %w", status, models.ErrInvalidStatus)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.OrderStatus == status {
		return nil
	}
	if !models.CanTransition(order.OrderStatus, status) {
		return fmt.Errorf("cannot move order %s from %q to %q: %w", orderID, order.OrderStatus, status, models.ErrInvalidStatus)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return err
	}

	if s.events != nil {
		payload := map[string]interface{}{
			"order_id": orderID,
			"from":     order.OrderStatus,
			"to":       status,
		}
		if err := s.events.Publish("order.status_changed", payload); err != nil {
			log.Printf("Warning: failed to publish status change event for order %s: %v", orderID, err)
		}
	}
	return nil
}
