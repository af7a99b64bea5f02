package pin

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/izilearn/izicoin/internal/middleware"
)

// Handler exposes PIN lifecycle endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a PIN handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type setupRequest struct {
	PIN     string `json:"pin"`
	Confirm string `json:"confirm"`
}

// Setup creates the wallet's parent PIN.
func (h *Handler) Setup(c *fiber.Ctx) error {
	var req setupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	err := h.service.Setup(c.UserContext(), middleware.Principal(c), req.PIN, req.Confirm)
	if err != nil {
		switch {
		case errors.Is(err, ErrPinMismatch):
			return fiber.NewError(http.StatusUnprocessableEntity, "pin confirmation does not match")
		case errors.Is(err, ErrAlreadySet):
			return fiber.NewError(http.StatusConflict, "pin already set")
		case errors.Is(err, ErrNotDigit):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"unlocked": true})
}

type verifyRequest struct {
	PIN string `json:"pin"`
}

// Verify checks the PIN and opens an unlock session on match.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	err := h.service.Verify(c.UserContext(), middleware.Principal(c), req.PIN)
	if err != nil {
		switch {
		case errors.Is(err, ErrPinMismatch):
			return fiber.NewError(http.StatusUnprocessableEntity, "incorrect pin")
		case errors.Is(err, ErrNotSet):
			return fiber.NewError(http.StatusConflict, "no pin set")
		default:
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"unlocked": true})
}
