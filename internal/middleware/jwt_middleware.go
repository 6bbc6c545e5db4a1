package middleware

import (
	"log"
	"strings"

	"gerai/internal/services"

	"github.com/gofiber/fiber/v2"
)

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return "", false
	}
	return parts[1], true
}

// CurrentUser resolves the JWT identity when one is presented and stores the
// claims in the Fiber context. Requests without a (valid) token pass through
// anonymously; guards that require login come separately.
func CurrentUser(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := authService.ValidateToken(tokenString); err == nil {
				c.Locals("user_id", claims["user_id"])
				c.Locals("username", claims["username"])
			}
		}
		return c.Next()
	}
}

// AuthRequired is a Fiber middleware to check for a valid JWT token. The 401
// payload carries a login URL with the original path as return target, so
// clients can send the user to log in and come straight back.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
				"login":   "/api/v1/auth/login?next=" + c.Path(),
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"login":   "/api/v1/auth/login?next=" + c.Path(),
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals("user_id", claims["user_id"])
		c.Locals("username", claims["username"])

		// Continue to the next handler
		return c.Next()
	}
}

// AdminRequired allows only identities with an Admin record through. It must
// run after AuthRequired.
func AdminRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
				"login":   "/api/v1/auth/login?next=" + c.Path(),
			})
		}

		isAdmin, err := authService.IsAdmin(userID)
		if err != nil {
			log.Printf("Admin lookup failed for user %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not verify administrator access",
			})
		}
		if !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Administrator access required",
			})
		}

		return c.Next()
	}
}
