package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"anime-catalog-service/internal/auth"
)

const identityKey = "identity"

// Identity resolves an optional Bearer token into an *auth.Identity.
// Missing or invalid tokens leave the request anonymous; handlers decide
// what anonymous callers may see.
func Identity(tokens auth.TokenService) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if len(authHeader) < len("Bearer ") || !strings.EqualFold(authHeader[:len("Bearer ")], "Bearer ") {
			return c.Next()
		}

		token := strings.TrimSpace(authHeader[len("Bearer "):])
		if token == "" {
			return c.Next()
		}

		id, err := tokens.Parse(token)
		if err != nil {
			return c.Next()
		}

		c.Locals(identityKey, id)
		return c.Next()
	}
}

// IdentityFrom returns the caller resolved by Identity, or nil for anonymous requests.
func IdentityFrom(c fiber.Ctx) *auth.Identity {
	id, _ := c.Locals(identityKey).(*auth.Identity)
	return id
}
