package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/izilearn/izicoin/internal/pin"
)

// RegisterPinRoutes wires PIN creation and verification. Verification is
// rate-limited per principal.
func RegisterPinRoutes(r fiber.Router, h *pin.Handler, rateLimiter fiber.Handler) {
	r.Post("/wallet/pin", h.Setup)
	r.Post("/wallet/pin/verify", rateLimiter, h.Verify)
}
