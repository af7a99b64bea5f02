package notify

import (
	"context"
	"log/slog"

	"github.com/izilearn/izicoin/internal/balance"
	"github.com/izilearn/izicoin/internal/ledger"
)

// Reprojector re-runs the balance projection for a wallet whenever its ledger
// changes and refreshes the memo cache. Because projection is full replay,
// re-running it for a stale or duplicate event just recomputes the same
// result.
type Reprojector struct {
	store  ledger.Store
	cache  *balance.Cache
	logger *slog.Logger
}

// NewReprojector builds the subscriber.
func NewReprojector(store ledger.Store, cache *balance.Cache, logger *slog.Logger) *Reprojector {
	return &Reprojector{store: store, cache: cache, logger: logger}
}

// Handle is the Bus handler.
func (r *Reprojector) Handle(ctx context.Context, walletID string) {
	txs, err := r.store.ListTransactions(ctx, walletID)
	if err != nil {
		r.logger.Warn("reproject: list transactions", "wallet_id", walletID, "error", err)
		return
	}
	b := balance.Replay(txs)

	lastID := int64(0)
	if len(txs) > 0 {
		lastID = txs[len(txs)-1].ID
	}
	r.cache.Put(ctx, walletID, b, lastID)

	r.logger.Debug("wallet reprojected",
		"wallet_id", walletID,
		"earned", b.Earned.String(),
		"loaded", b.Loaded.String(),
		"last_tx", lastID)
}
