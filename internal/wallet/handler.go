package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/izilearn/izicoin/internal/ledger"
	"github.com/izilearn/izicoin/internal/middleware"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type balanceResponse struct {
	WalletID string `json:"wallet_id"`
	Earned   string `json:"earned"`
	Loaded   string `json:"loaded"`
	Total    string `json:"total"`
	PinSet   bool   `json:"pin_set"`
}

// Get returns the principal's wallet and its projected balance, creating the
// wallet on first access.
func (h *Handler) Get(c *fiber.Ctx) error {
	ownerID := middleware.Principal(c)

	w, err := h.service.ForOwner(c.UserContext(), ownerID)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	b, err := h.service.Balance(c.UserContext(), ownerID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(balanceResponse{
		WalletID: w.ID,
		Earned:   b.Earned.StringFixed(2),
		Loaded:   b.Loaded.StringFixed(2),
		Total:    b.Total().StringFixed(2),
		PinSet:   w.HasPIN(),
	})
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
	Source      string `json:"source"`
	Description string `json:"description"`
	GiftCardID  string `json:"gift_card_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// Transactions returns the wallet's ledger history in replay order.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	txs, err := h.service.Transactions(c.UserContext(), middleware.Principal(c))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse{
			ID:          tx.ID,
			Amount:      tx.Amount.StringFixed(2),
			Kind:        string(tx.Kind),
			Source:      string(tx.Source),
			Description: tx.Description,
			GiftCardID:  tx.GiftCardID,
			CreatedAt:   tx.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"transactions": out})
}

type topUpRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// TopUp credits the wallet from the guardian.
func (h *Handler) TopUp(c *fiber.Ctx) error {
	var req topUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}

	b, err := h.service.TopUp(c.UserContext(), middleware.Principal(c), amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ledger.ErrWalletNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"earned": b.Earned.StringFixed(2),
		"loaded": b.Loaded.StringFixed(2),
		"total":  b.Total().StringFixed(2),
	})
}
