package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/izilearn/izicoin/internal/auth"
	"github.com/izilearn/izicoin/internal/config"
)

// PrincipalKey is the locals key under which the authenticated owner id is stored.
const PrincipalKey = "user_id"

// JWTAuth validates bearer tokens and resolves the current principal. Every
// wallet operation runs behind this gate: no resolvable principal means the
// request never touches the ledger.
func JWTAuth(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := auth.ParseAndVerifyHS256(tokenStr, []byte(cfg.JWTSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			return fiber.NewError(http.StatusUnauthorized, "token missing subject")
		}

		c.Locals(PrincipalKey, sub)
		return c.Next()
	}
}

// Principal returns the authenticated owner id, or empty when unauthenticated.
func Principal(c *fiber.Ctx) string {
	uid, _ := c.Locals(PrincipalKey).(string)
	return uid
}
