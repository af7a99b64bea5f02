package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

const changeChannel = "izicoin:wallet-changed"

// RedisBus fans wallet change events out across instances via Redis pub/sub.
// Local subscribers receive events published by any instance, including this
// one; Redis pub/sub is fire-and-forget, which the replay-based projector
// tolerates.
type RedisBus struct {
	client *redis.Client
	logger *slog.Logger

	mu       sync.RWMutex
	handlers []Handler
}

// NewRedisBus constructs the bus. Run must be started for subscriptions to
// receive events.
func NewRedisBus(client *redis.Client, logger *slog.Logger) *RedisBus {
	return &RedisBus{client: client, logger: logger}
}

// Publish announces a wallet mutation. Publish failures are logged, never
// propagated: notification delivery must not block ledger writes.
func (b *RedisBus) Publish(ctx context.Context, walletID string) {
	if err := b.client.Publish(ctx, changeChannel, walletID).Err(); err != nil {
		b.logger.Warn("publish wallet change", "wallet_id", walletID, "error", err)
	}
}

// Subscribe registers a handler for wallet change events.
func (b *RedisBus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Run consumes the change channel until the context is cancelled.
func (b *RedisBus) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, changeChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.dispatch(ctx, msg.Payload)
		}
	}
}

func (b *RedisBus) dispatch(ctx context.Context, walletID string) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, walletID)
	}
}
