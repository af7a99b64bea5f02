package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// SeedCredit is a test helper that appends a guardian credit to a wallet when
// using the in-memory store.
func SeedCredit(s Store, walletID string, amount decimal.Decimal) {
	if mem, ok := s.(*memoryStore); ok {
		_, _ = mem.Append(context.Background(), walletID, Entry{
			Amount:      amount,
			Kind:        KindCredit,
			Source:      SourceWallet,
			Description: "seed",
		})
	}
}
