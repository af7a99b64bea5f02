package spend

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/izilearn/izicoin/internal/balance"
	"github.com/izilearn/izicoin/internal/ledger"
	"github.com/izilearn/izicoin/internal/notification"
	"github.com/izilearn/izicoin/internal/notify"
)

// ErrInvalidAmount indicates a non-positive purchase amount.
var ErrInvalidAmount = errors.New("amount must be positive")

// Service coordinates gift-card purchases against the ledger.
type Service struct {
	store    ledger.Store
	bus      notify.Bus
	notifier notification.Notifier
}

// NewService constructs a spend coordinator.
func NewService(store ledger.Store, bus notify.Bus, notifier notification.Notifier) *Service {
	return &Service{store: store, bus: bus, notifier: notifier}
}

// Result captures the outcome of a purchase.
type Result struct {
	Transaction ledger.Transaction
	Balance     balance.Balance
}

// Purchase debits the owner's wallet for a gift card. The sufficiency check
// and the debit are one atomic store operation, so concurrent purchases
// cannot both pass the check and overspend. Spending draws earned down before
// loaded; that allocation happens at projection time, not here.
func (s *Service) Purchase(ctx context.Context, ownerID, giftCardID string, amount decimal.Decimal) (Result, error) {
	if !amount.IsPositive() {
		return Result{}, ErrInvalidAmount
	}

	w, err := s.store.GetOrCreateWallet(ctx, ownerID)
	if err != nil {
		return Result{}, err
	}

	tx, err := s.store.AppendPurchase(ctx, w.ID, amount, giftCardID,
		fmt.Sprintf("gift card %s", giftCardID))
	if err != nil {
		// ErrInsufficientFunds guarantees no ledger write happened.
		return Result{}, err
	}

	txs, err := s.store.ListTransactions(ctx, w.ID)
	if err != nil {
		return Result{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, w.ID)
	}
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPurchase,
			Destination: ownerID,
			Body:        fmt.Sprintf("You spent %s izicoin on gift card %s", amount.StringFixed(2), giftCardID),
		})
	}

	return Result{Transaction: tx, Balance: balance.Replay(txs)}, nil
}
