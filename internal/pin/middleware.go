package pin

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/izilearn/izicoin/internal/middleware"
)

// RequireUnlocked rejects wallet mutations unless the principal's wallet has
// a live unlock session. Wallets without a PIN pass through; the gate only
// applies once a parent has set one.
func RequireUnlocked(service *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID := middleware.Principal(c)
		if ownerID == "" {
			return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
		}
		unlocked, err := service.Unlocked(c.UserContext(), ownerID)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
		if !unlocked {
			return fiber.NewError(http.StatusForbidden, "wallet locked, verify PIN first")
		}
		return c.Next()
	}
}
