package reward

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/izilearn/izicoin/internal/ledger"
	"github.com/izilearn/izicoin/internal/notification"
	"github.com/izilearn/izicoin/internal/notify"
)

// ErrScoreOutOfRange indicates a score outside 0-100.
var ErrScoreOutOfRange = errors.New("score must be between 0 and 100")

var (
	fullCoin     = decimal.NewFromFloat(1.00)
	threeQuarter = decimal.NewFromFloat(0.75)
	halfCoin     = decimal.NewFromFloat(0.50)
	quarterCoin  = decimal.NewFromFloat(0.25)
)

// For maps a quiz or exercise score to an izicoin reward using inclusive
// thresholds: 100 pays a full coin, then 0.75 from 75, 0.50 from 50, 0.25
// from 25, and nothing below that.
func For(score int) decimal.Decimal {
	switch {
	case score >= 100:
		return fullCoin
	case score >= 75:
		return threeQuarter
	case score >= 50:
		return halfCoin
	case score >= 25:
		return quarterCoin
	default:
		return decimal.Zero
	}
}

// Service turns quiz results into reward credits on the owner's ledger.
type Service struct {
	store    ledger.Store
	bus      notify.Bus
	notifier notification.Notifier
}

// NewService constructs a reward service.
func NewService(store ledger.Store, bus notify.Bus, notifier notification.Notifier) *Service {
	return &Service{store: store, bus: bus, notifier: notifier}
}

// Result reports an awarded reward. Amount is zero when the score earned
// nothing, in which case no transaction exists.
type Result struct {
	WalletID    string
	Amount      decimal.Decimal
	Transaction ledger.Transaction
}

// Award computes the reward for a score and, when positive, appends exactly
// one Reward credit to the owner's ledger. Zero-reward events write nothing.
func (s *Service) Award(ctx context.Context, ownerID string, score int) (Result, error) {
	if score < 0 || score > 100 {
		return Result{}, ErrScoreOutOfRange
	}

	w, err := s.store.GetOrCreateWallet(ctx, ownerID)
	if err != nil {
		return Result{}, err
	}

	amount := For(score)
	if amount.IsZero() {
		return Result{WalletID: w.ID, Amount: decimal.Zero}, nil
	}

	tx, err := s.store.Append(ctx, w.ID, ledger.Entry{
		Amount:      amount,
		Kind:        ledger.KindCredit,
		Source:      ledger.SourceReward,
		Description: fmt.Sprintf("reward for score %d", score),
	})
	if err != nil {
		return Result{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, w.ID)
	}
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindRewardEarned,
			Destination: ownerID,
			Body:        fmt.Sprintf("You earned %s izicoin for scoring %d", amount.StringFixed(2), score),
		})
	}

	return Result{WalletID: w.ID, Amount: amount, Transaction: tx}, nil
}
