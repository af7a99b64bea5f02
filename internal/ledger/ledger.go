package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientFunds occurs when a wallet's combined balance cannot
	// cover a requested purchase debit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrWalletNotFound indicates the referenced wallet does not exist.
	// Owner-facing paths resolve it via GetOrCreateWallet and never surface it.
	ErrWalletNotFound = errors.New("wallet not found")
)

// Kind classifies a transaction as a credit or a debit.
type Kind string

const (
	KindCredit Kind = "credit"
	KindDebit  Kind = "debit"
)

// Source identifies which flow produced a transaction. The projector keys its
// allocation rules off this field.
type Source string

const (
	// SourceWallet marks guardian top-ups and adjustments; amounts are signed.
	SourceWallet Source = "wallet"
	// SourceReward marks performance reward credits; amounts are positive magnitudes.
	SourceReward Source = "reward"
	// SourceStore marks gift-card purchase debits; amounts are positive magnitudes.
	SourceStore Source = "store"
)

// Wallet is the per-owner record anchoring a transaction log. Balances are
// never stored on it; they are always projected from the log.
type Wallet struct {
	ID        string
	OwnerID   string
	PINHash   []byte
	CreatedAt time.Time
}

// HasPIN reports whether a parent PIN has been set on the wallet.
func (w Wallet) HasPIN() bool { return len(w.PINHash) > 0 }

// Transaction is an immutable ledger entry. ID is assigned by the store at
// append time and is strictly increasing per store, which makes replay order
// deterministic even when created_at collides.
type Transaction struct {
	ID          int64
	WalletID    string
	Amount      decimal.Decimal
	Kind        Kind
	Source      Source
	Description string
	GiftCardID  string
	CreatedAt   time.Time
}

// Entry carries the caller-supplied fields of a transaction to append.
type Entry struct {
	Amount      decimal.Decimal
	Kind        Kind
	Source      Source
	Description string
	GiftCardID  string
}

// Store is the append-only transaction log plus the wallet records it hangs
// off. Appends never validate balances; sufficiency checking belongs to
// AppendPurchase alone, which performs it atomically with the write.
type Store interface {
	// GetOrCreateWallet returns the owner's wallet, creating it on first
	// access. Concurrent calls for one owner must not create duplicates.
	GetOrCreateWallet(ctx context.Context, ownerID string) (Wallet, error)

	// GetWallet fetches a wallet by id, or ErrWalletNotFound.
	GetWallet(ctx context.Context, walletID string) (Wallet, error)

	// Append records a transaction unconditionally.
	Append(ctx context.Context, walletID string, entry Entry) (Transaction, error)

	// AppendPurchase records a Store debit of the given magnitude only if the
	// wallet's combined balance covers it. The balance recomputation and the
	// insert are a single atomic unit; on ErrInsufficientFunds nothing is
	// written.
	AppendPurchase(ctx context.Context, walletID string, amount decimal.Decimal, giftCardID, description string) (Transaction, error)

	// ListTransactions returns the wallet's full log ascending by
	// (created_at, id).
	ListTransactions(ctx context.Context, walletID string) ([]Transaction, error)

	// LastTransactionID returns the id of the wallet's newest transaction, or
	// zero for an empty log. Used to validate memoized projections.
	LastTransactionID(ctx context.Context, walletID string) (int64, error)

	// SetPIN stores the wallet's parent PIN hash.
	SetPIN(ctx context.Context, walletID string, pinHash []byte) error
}

// SignedAmount returns the transaction's contribution to the wallet's combined
// balance: Store debits subtract their magnitude, everything else adds its
// (signed) amount.
func SignedAmount(tx Transaction) decimal.Decimal {
	if tx.Source == SourceStore {
		return tx.Amount.Neg()
	}
	return tx.Amount
}
