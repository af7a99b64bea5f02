package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/izilearn/izicoin/internal/reward"
)

// RegisterRewardRoutes wires the reward endpoint. Rewards are pure credits
// driven by the exercise engine, not a wallet mutation a parent initiates,
// so they bypass the PIN gate.
func RegisterRewardRoutes(r fiber.Router, h *reward.Handler) {
	r.Post("/rewards", h.Award)
}
