package middleware

import (
	"log"
	"time"

	"gerai/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CartSession makes sure every request carries an opaque session token in a
// cookie and exposes it as c.Locals("session_id"). The token is what the cart
// binding hangs off; it identifies a browser, not a user.
func CartSession(cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(cookieName)
		if sessionID == "" {
			sessionID = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     cookieName,
				Value:    sessionID,
				Expires:  time.Now().Add(30 * 24 * time.Hour),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals("session_id", sessionID)
		return c.Next()
	}
}

// BindCartCustomer attaches the session's cart to the authenticated customer
// on every request that carries both. It must run after CartSession and
// CurrentUser. Binding failures are logged, never fatal; the request itself
// does not depend on them.
func BindCartCustomer(cartService *services.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID, _ := c.Locals("session_id").(string)
		userID, _ := c.Locals("user_id").(string)
		if sessionID != "" && userID != "" {
			if err := cartService.BindCustomer(sessionID, userID); err != nil {
				log.Printf("Failed to bind cart for session %s: %v", sessionID, err)
			}
		}
		return c.Next()
	}
}
