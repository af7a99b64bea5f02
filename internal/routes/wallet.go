package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/izilearn/izicoin/internal/pin"
	"github.com/izilearn/izicoin/internal/spend"
	"github.com/izilearn/izicoin/internal/wallet"
)

// RegisterWalletRoutes wires the wallet read and mutation endpoints. Mutations
// sit behind the PIN unlock gate.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler, sh *spend.Handler, pins *pin.Service) {
	r.Get("/wallet", h.Get)
	r.Get("/wallet/transactions", h.Transactions)

	locked := r.Group("", pin.RequireUnlocked(pins))
	locked.Post("/wallet/topup", h.TopUp)
	locked.Post("/wallet/purchase", sh.Purchase)
}
