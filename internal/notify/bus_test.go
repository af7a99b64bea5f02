package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/izilearn/izicoin/internal/ledger"
	"github.com/izilearn/izicoin/internal/logging"
)

func TestMemoryBusFanOut(t *testing.T) {
	bus := NewMemoryBus()

	var first, second []string
	bus.Subscribe(func(_ context.Context, walletID string) { first = append(first, walletID) })
	bus.Subscribe(func(_ context.Context, walletID string) { second = append(second, walletID) })

	bus.Publish(context.Background(), "w-1")
	bus.Publish(context.Background(), "w-2")

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected both subscribers to see both events, got %v and %v", first, second)
	}
}

func TestReprojectorToleratesDuplicates(t *testing.T) {
	store := ledger.NewMemoryStore()
	ctx := context.Background()
	w, _ := store.GetOrCreateWallet(ctx, uuid.NewString())
	ledger.SeedCredit(store, w.ID, decimal.NewFromInt(5))

	r := NewReprojector(store, nil, logging.Discard())

	// Duplicate and repeated notifications recompute the same projection;
	// no counter drifts because nothing is incrementally maintained.
	r.Handle(ctx, w.ID)
	r.Handle(ctx, w.ID)
	r.Handle(ctx, "unknown-wallet") // logged, not fatal
}
