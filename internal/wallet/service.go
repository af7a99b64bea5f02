package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/izilearn/izicoin/internal/balance"
	"github.com/izilearn/izicoin/internal/ledger"
	"github.com/izilearn/izicoin/internal/notification"
	"github.com/izilearn/izicoin/internal/notify"
)

// ErrInvalidAmount indicates a non-positive top-up amount.
var ErrInvalidAmount = errors.New("amount must be positive")

// Service is the owner-facing facade over the ledger: get-or-create, balance
// projection, guardian top-ups and transaction history.
type Service struct {
	store    ledger.Store
	cache    *balance.Cache
	bus      notify.Bus
	notifier notification.Notifier
}

// NewService builds a wallet service. cache may be nil to disable projection
// memoization.
func NewService(store ledger.Store, cache *balance.Cache, bus notify.Bus, notifier notification.Notifier) *Service {
	return &Service{store: store, cache: cache, bus: bus, notifier: notifier}
}

// ForOwner returns the owner's wallet, creating it on first access.
func (s *Service) ForOwner(ctx context.Context, ownerID string) (ledger.Wallet, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return ledger.Wallet{}, fmt.Errorf("invalid owner id: %w", err)
	}
	return s.store.GetOrCreateWallet(ctx, ownerID)
}

// Balance projects the wallet's current balance. The memo cache is consulted
// only when its snapshot matches the ledger's newest transaction id; anything
// else falls back to a full replay, so the cache can never drift from the
// ledger.
func (s *Service) Balance(ctx context.Context, ownerID string) (balance.Balance, error) {
	w, err := s.ForOwner(ctx, ownerID)
	if err != nil {
		return balance.Balance{}, err
	}

	lastID, err := s.store.LastTransactionID(ctx, w.ID)
	if err != nil {
		return balance.Balance{}, err
	}
	if b, ok := s.cache.Get(ctx, w.ID, lastID); ok {
		return b, nil
	}

	txs, err := s.store.ListTransactions(ctx, w.ID)
	if err != nil {
		return balance.Balance{}, err
	}
	b := balance.Replay(txs)
	s.cache.Put(ctx, w.ID, b, lastID)
	return b, nil
}

// Transactions returns the wallet's ledger history in replay order.
func (s *Service) Transactions(ctx context.Context, ownerID string) ([]ledger.Transaction, error) {
	w, err := s.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, w.ID)
}

// TopUp appends a guardian credit (source=wallet) and returns the new balance.
func (s *Service) TopUp(ctx context.Context, ownerID string, amount decimal.Decimal, description string) (balance.Balance, error) {
	if !amount.IsPositive() {
		return balance.Balance{}, ErrInvalidAmount
	}

	w, err := s.ForOwner(ctx, ownerID)
	if err != nil {
		return balance.Balance{}, err
	}

	if description == "" {
		description = "guardian top-up"
	}
	if _, err := s.store.Append(ctx, w.ID, ledger.Entry{
		Amount:      amount,
		Kind:        ledger.KindCredit,
		Source:      ledger.SourceWallet,
		Description: description,
	}); err != nil {
		return balance.Balance{}, err
	}

	txs, err := s.store.ListTransactions(ctx, w.ID)
	if err != nil {
		return balance.Balance{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, w.ID)
	}
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTopUp,
			Destination: ownerID,
			Body:        fmt.Sprintf("Your wallet was loaded with %s izicoin", amount.StringFixed(2)),
		})
	}

	return balance.Replay(txs), nil
}
