package handlers

import (
	"fmt"
	"log"

	"gerai/internal/models"
	"gerai/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for customer order history and the
// administrative order workflow.
type OrderHandler struct {
	orderService *services.OrderService
	authService  *services.AuthService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService, authService *services.AuthService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		authService:  authService,
	}
}

// RegisterCustomerRoutes registers the self-service routes. The router group
// must already require login.
func (h *OrderHandler) RegisterCustomerRoutes(router fiber.Router) {
	router.Get("/profile", h.HandleProfile)
	router.Get("/profile/orders/:id", h.HandleOrderDetail)
}

// RegisterAdminRoutes registers the administrative order routes. The router
// group must already require an administrator.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/pending", h.HandlePendingOrders)
	orderRoutes.Get("/", h.HandleAllOrders)
	orderRoutes.Get("/:id", h.HandleAdminOrderDetail)
	orderRoutes.Patch("/:id/status", h.HandleChangeStatus)
}

func (h *OrderHandler) currentCustomer(c *fiber.Ctx) (*models.Customer, error) {
	uid := userID(c)
	if uid == "" {
		// The login guard normally runs first; this keeps anonymous requests
		// out even when these routes are wired without it.
		return nil, fmt.Errorf("no authenticated user: %w", models.ErrUnauthenticated)
	}
	customer, err := h.authService.CustomerFor(uid)
	if err != nil {
		return nil, fmt.Errorf("no customer profile for this account: %w", models.ErrForbidden)
	}
	return customer, nil
}

// HandleProfile returns the customer profile and their orders, newest first.
func (h *OrderHandler) HandleProfile(c *fiber.Ctx) error {
	customer, err := h.currentCustomer(c)
	if err != nil {
		return writeError(c, err, "Could not resolve customer")
	}

	orders, err := h.orderService.MyOrders(customer.ID)
	if err != nil {
		return writeError(c, err, "Could not retrieve orders")
	}
	return c.JSON(fiber.Map{
		"customer": customer,
		"orders":   orders,
	})
}

// HandleOrderDetail returns one of the customer's own orders. Somebody else's
// order is denied without confirming it exists.
func (h *OrderHandler) HandleOrderDetail(c *fiber.Ctx) error {
	customer, err := h.currentCustomer(c)
	if err != nil {
		return writeError(c, err, "Could not resolve customer")
	}

	order, err := h.orderService.OrderDetail(customer.ID, c.Params("id"))
	if err != nil {
		return writeError(c, err, "Could not retrieve order")
	}
	return c.JSON(order)
}

// HandlePendingOrders returns the orders still waiting for processing.
func (h *OrderHandler) HandlePendingOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.PendingOrders()
	if err != nil {
		return writeError(c, err, "Could not retrieve pending orders")
	}
	return c.JSON(orders)
}

// HandleAllOrders returns every order, newest first.
func (h *OrderHandler) HandleAllOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.AllOrders()
	if err != nil {
		return writeError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleAdminOrderDetail returns one order plus the status choices the admin
// UI offers.
func (h *OrderHandler) HandleAdminOrderDetail(c *fiber.Ctx) error {
	order, err := h.orderService.GetOrder(c.Params("id"))
	if err != nil {
		return writeError(c, err, "Could not retrieve order")
	}
	return c.JSON(fiber.Map{
		"order":    order,
		"statuses": models.OrderStatuses,
	})
}

// HandleChangeStatus moves an order to a new fulfillment status.
func (h *OrderHandler) HandleChangeStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	if err := h.orderService.ChangeStatus(orderID, updateData.Status); err != nil {
		return writeError(c, err, "Could not update order status")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, updateData.Status),
	})
}
