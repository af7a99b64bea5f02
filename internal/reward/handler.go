package reward

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/izilearn/izicoin/internal/middleware"
)

// Handler exposes the reward endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a reward handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type awardRequest struct {
	Score int `json:"score"`
}

// Award credits the principal's wallet for a quiz score. A score below the
// lowest tier is accepted but credits nothing.
func (h *Handler) Award(c *fiber.Ctx) error {
	var req awardRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Award(c.UserContext(), middleware.Principal(c), req.Score)
	if err != nil {
		if errors.Is(err, ErrScoreOutOfRange) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	status := http.StatusCreated
	if res.Amount.IsZero() {
		status = http.StatusOK
	}
	return c.Status(status).JSON(fiber.Map{
		"wallet_id": res.WalletID,
		"amount":    res.Amount.StringFixed(2),
	})
}
