package middleware

import (
	"log"
	"strings"

	"tasker/internal/models"
	"tasker/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(token string) (*models.User, error)
}

// AuthRequired is a Fiber middleware that admits only requests carrying an
// active bearer token. Every rejection gets the same 401 body.
func AuthRequired(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			log.Printf("Rejected %s %s: missing or malformed Authorization header", c.Method(), c.Path())
			return unauthorized(c)
		}

		tokenString := parts[1]
		user, err := auth.Authenticate(tokenString)
		if err != nil {
			log.Printf("Rejected %s %s: %v", c.Method(), c.Path(), err)
			return unauthorized(c)
		}

		c.Locals(userKey, user)
		c.Locals(tokenKey, tokenString)
		return c.Next()
	}
}

// CurrentUser returns the user attached by AuthRequired.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// CurrentToken returns the raw bearer token attached by AuthRequired.
func CurrentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenKey).(string)
	return token
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Please authenticate.",
	})
}

var _ Authenticator = (*services.AuthService)(nil)
