package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memoryStore struct {
	mu           sync.Mutex
	walletsByID  map[string]*Wallet
	walletOwners map[string]string // ownerID -> walletID
	transactions map[string][]Transaction
	nextTxID     int64
}

// NewMemoryStore creates a concurrency-safe in-memory store useful for unit
// tests and for running without Postgres in development.
func NewMemoryStore() Store {
	return &memoryStore{
		walletsByID:  make(map[string]*Wallet),
		walletOwners: make(map[string]string),
		transactions: make(map[string][]Transaction),
	}
}

func (s *memoryStore) GetOrCreateWallet(_ context.Context, ownerID string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if walletID, ok := s.walletOwners[ownerID]; ok {
		return *s.walletsByID[walletID], nil
	}

	w := Wallet{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	s.walletsByID[w.ID] = &w
	s.walletOwners[ownerID] = w.ID
	return w, nil
}

func (s *memoryStore) GetWallet(_ context.Context, walletID string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.walletsByID[walletID]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return *w, nil
}

func (s *memoryStore) Append(_ context.Context, walletID string, entry Entry) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(walletID, entry)
}

func (s *memoryStore) AppendPurchase(_ context.Context, walletID string, amount decimal.Decimal, giftCardID, description string) (Transaction, error) {
	// Holding the mutex across the sufficiency check and the append closes
	// the window where two purchases could both pass the check.
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.walletsByID[walletID]; !ok {
		return Transaction{}, ErrWalletNotFound
	}

	total := decimal.Zero
	for _, tx := range s.transactions[walletID] {
		total = total.Add(SignedAmount(tx))
	}
	if total.LessThan(amount) {
		return Transaction{}, ErrInsufficientFunds
	}

	return s.appendLocked(walletID, Entry{
		Amount:      amount,
		Kind:        KindDebit,
		Source:      SourceStore,
		Description: description,
		GiftCardID:  giftCardID,
	})
}

func (s *memoryStore) appendLocked(walletID string, entry Entry) (Transaction, error) {
	if _, ok := s.walletsByID[walletID]; !ok {
		return Transaction{}, ErrWalletNotFound
	}

	s.nextTxID++
	tx := Transaction{
		ID:          s.nextTxID,
		WalletID:    walletID,
		Amount:      entry.Amount,
		Kind:        entry.Kind,
		Source:      entry.Source,
		Description: entry.Description,
		GiftCardID:  entry.GiftCardID,
		CreatedAt:   time.Now().UTC(),
	}
	s.transactions[walletID] = append(s.transactions[walletID], tx)
	return tx, nil
}

func (s *memoryStore) ListTransactions(_ context.Context, walletID string) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.walletsByID[walletID]; !ok {
		return nil, ErrWalletNotFound
	}
	// Appends assign ids monotonically under the same mutex, so the slice is
	// already in (created_at, id) order.
	out := make([]Transaction, len(s.transactions[walletID]))
	copy(out, s.transactions[walletID])
	return out, nil
}

func (s *memoryStore) LastTransactionID(_ context.Context, walletID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.walletsByID[walletID]; !ok {
		return 0, ErrWalletNotFound
	}
	txs := s.transactions[walletID]
	if len(txs) == 0 {
		return 0, nil
	}
	return txs[len(txs)-1].ID, nil
}

func (s *memoryStore) SetPIN(_ context.Context, walletID string, pinHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.walletsByID[walletID]
	if !ok {
		return ErrWalletNotFound
	}
	w.PINHash = append([]byte(nil), pinHash...)
	return nil
}
