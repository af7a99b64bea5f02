package spend

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/izilearn/izicoin/internal/ledger"
	"github.com/izilearn/izicoin/internal/middleware"
)

// Handler exposes the purchase endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a spend handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type purchaseRequest struct {
	GiftCardID string `json:"gift_card_id"`
	Amount     string `json:"amount"`
}

// Purchase debits the principal's wallet for a gift card.
func (h *Handler) Purchase(c *fiber.Ctx) error {
	var req purchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.GiftCardID == "" {
		return fiber.NewError(http.StatusBadRequest, "gift_card_id is required")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}

	res, err := h.service.Purchase(c.UserContext(), middleware.Principal(c), req.GiftCardID, amount)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return fiber.NewError(http.StatusBadRequest, "insufficient funds")
		case errors.Is(err, ErrInvalidAmount):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transaction_id": res.Transaction.ID,
		"gift_card_id":   req.GiftCardID,
		"earned":         res.Balance.Earned.StringFixed(2),
		"loaded":         res.Balance.Loaded.StringFixed(2),
		"total":          res.Balance.Total().StringFixed(2),
	})
}
