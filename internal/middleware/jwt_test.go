package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/izilearn/izicoin/internal/auth"
	"github.com/izilearn/izicoin/internal/config"
)

const testSecret = "test-secret"

func jwtApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(JWTAuth(config.Config{JWTSecret: testSecret}))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(Principal(c))
	})
	return app
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	app := jwtApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestJWTAuthRejectsBadSignature(t *testing.T) {
	app := jwtApp(t)

	token, err := auth.SignHS256(map[string]any{"sub": uuid.NewString()}, []byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestJWTAuthResolvesPrincipal(t *testing.T) {
	app := jwtApp(t)
	sub := uuid.NewString()

	token, err := auth.SignHS256(map[string]any{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}, []byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
