// Package notify fans wallet change events out to subscribers. Events carry
// only the affected wallet id: subscribers re-project from the full ledger, so
// dropped ordering or duplicate delivery is harmless.
package notify

import (
	"context"
	"sync"
)

// Handler consumes a wallet-changed event.
type Handler func(ctx context.Context, walletID string)

// Bus publishes ledger mutation events to interested subscribers.
type Bus interface {
	Publish(ctx context.Context, walletID string)
	Subscribe(h Handler)
}

type memoryBus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewMemoryBus creates an in-process bus. Delivery is synchronous and
// best-effort; handlers must not rely on ordering.
func NewMemoryBus() Bus {
	return &memoryBus{}
}

func (b *memoryBus) Publish(ctx context.Context, walletID string) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, walletID)
	}
}

func (b *memoryBus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}
