package handlers

import (
	"log"

	"gerai/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the session cart and checkout.
type CartHandler struct {
	cartService     *services.CartService
	checkoutService *services.CheckoutService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService, checkoutService *services.CheckoutService) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

// RegisterRoutes registers the cart and checkout routes. Cart browsing works
// anonymously; checkout is gated behind the provided login guard.
func (h *CartHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleViewCart)
	cartRoutes.Post("/items/:productId", h.HandleAddToCart)
	cartRoutes.Patch("/lines/:lineId", h.HandleChangeLine)
	cartRoutes.Delete("/", h.HandleEmptyCart)

	router.Post("/checkout", authRequired, h.HandleCheckout)
}

// HandleViewCart returns the session's cart, or a null cart when the session
// has none yet. An empty session is ordinary browsing, not an error.
func (h *CartHandler) HandleViewCart(c *fiber.Ctx) error {
	cart, err := h.cartService.ViewCart(sessionID(c))
	if err != nil {
		return writeError(c, err, "Could not retrieve cart")
	}
	return c.JSON(fiber.Map{"cart": cart})
}

// HandleAddToCart puts one unit of the product into the session's cart,
// creating the cart first when the session has none.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	cart, err := h.cartService.AddToCart(sessionID(c), c.Params("productId"))
	if err != nil {
		return writeError(c, err, "Could not add product to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"cart": cart})
}

// HandleChangeLine applies ?action=increase|decrease|remove to one cart line.
func (h *CartHandler) HandleChangeLine(c *fiber.Ctx) error {
	action := c.Query("action")
	cart, err := h.cartService.ChangeLine(sessionID(c), c.Params("lineId"), action)
	if err != nil {
		return writeError(c, err, "Could not update cart line")
	}
	return c.JSON(fiber.Map{"cart": cart})
}

// HandleEmptyCart removes every line from the session's cart.
func (h *CartHandler) HandleEmptyCart(c *fiber.Ctx) error {
	if err := h.cartService.EmptyCart(sessionID(c)); err != nil {
		return writeError(c, err, "Could not empty cart")
	}
	cart, err := h.cartService.ViewCart(sessionID(c))
	if err != nil {
		return writeError(c, err, "Could not retrieve cart")
	}
	return c.JSON(fiber.Map{
		"message": "Cart emptied",
		"cart":    cart,
	})
}

// HandleCheckout converts the session's cart into an order.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	var input services.CheckoutInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing checkout body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.checkoutService.Checkout(sessionID(c), input)
	if err != nil {
		return writeError(c, err, "Could not complete checkout")
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}
