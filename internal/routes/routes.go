package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/izilearn/izicoin/internal/balance"
	"github.com/izilearn/izicoin/internal/config"
	"github.com/izilearn/izicoin/internal/ledger"
	"github.com/izilearn/izicoin/internal/middleware"
	"github.com/izilearn/izicoin/internal/notification"
	"github.com/izilearn/izicoin/internal/notify"
	"github.com/izilearn/izicoin/internal/pin"
	"github.com/izilearn/izicoin/internal/reward"
	"github.com/izilearn/izicoin/internal/spend"
	"github.com/izilearn/izicoin/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Bus    notify.Bus
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !config.IsDev(d.Cfg.Env) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Stores and services
	var store ledger.Store
	if d.DB != nil {
		store = ledger.NewPostgresStore(d.DB)
	} else {
		store = ledger.NewMemoryStore()
	}

	var projCache *balance.Cache
	if d.Cache != nil {
		projCache = balance.NewCache(d.Cache)
	}

	bus := d.Bus
	if bus == nil {
		bus = notify.NewMemoryBus()
	}
	bus.Subscribe(notify.NewReprojector(store, projCache, d.Logger).Handle)

	notifier := notification.NewLoggerNotifier(d.Logger)

	var sessions pin.Sessions
	if d.Cache != nil {
		sessions = pin.NewRedisSessions(d.Cache, d.Cfg.PinUnlockTTL)
	} else {
		sessions = pin.NewMemorySessions(d.Cfg.PinUnlockTTL)
	}

	walletSvc := wallet.NewService(store, projCache, bus, notifier)
	spendSvc := spend.NewService(store, bus, notifier)
	rewardSvc := reward.NewService(store, bus, notifier)
	pinSvc := pin.NewService(store, sessions, notifier)

	walletHandler := wallet.NewHandler(walletSvc)
	spendHandler := spend.NewHandler(spendSvc)
	rewardHandler := reward.NewHandler(rewardSvc)
	pinHandler := pin.NewHandler(pinSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Everything below requires a resolved principal.
	protected := api.Group("", middleware.JWTAuth(d.Cfg))

	RegisterWalletRoutes(protected, walletHandler, spendHandler, pinSvc)
	RegisterRewardRoutes(protected, rewardHandler)
	RegisterPinRoutes(protected, pinHandler, middleware.PinRateLimit(d.Cache, d.Cfg.PinAttemptsPerMin))

	return nil
}
