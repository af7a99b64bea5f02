// Package balance projects a wallet's transaction log into its two live
// balances. Projection is a pure replay of the full log: it never maintains a
// running total, so duplicate or out-of-order change notifications cannot
// desynchronize it from the ledger.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/izilearn/izicoin/internal/ledger"
)

// Balance splits a wallet's funds into performance rewards (earned) and
// guardian top-ups (loaded). It is derived state, never persisted
// authoritatively.
type Balance struct {
	Earned decimal.Decimal `json:"earned"`
	Loaded decimal.Decimal `json:"loaded"`
}

// Zero returns an empty balance with both buckets at zero.
func Zero() Balance {
	return Balance{Earned: decimal.Zero, Loaded: decimal.Zero}
}

// Total returns the combined spendable balance.
func (b Balance) Total() decimal.Decimal {
	return b.Earned.Add(b.Loaded)
}

// Replay folds a transaction list, ascending by (created_at, id), into a
// Balance. Allocation rules:
//
//   - Reward credits accrue to earned.
//   - Store debits draw from earned first; any remainder comes out of loaded.
//     Loaded may go negative when the remainder exceeds it — sufficiency is
//     enforced against the sum at append time, not per bucket.
//   - Wallet-source entries apply their signed amount to loaded.
//
// Replay is total and deterministic: same input, same output, no hidden state.
func Replay(txs []ledger.Transaction) Balance {
	b := Zero()
	for _, tx := range txs {
		switch tx.Source {
		case ledger.SourceReward:
			b.Earned = b.Earned.Add(tx.Amount)
		case ledger.SourceStore:
			fromEarned := decimal.Min(b.Earned, tx.Amount)
			b.Earned = b.Earned.Sub(fromEarned)
			b.Loaded = b.Loaded.Sub(tx.Amount.Sub(fromEarned))
		default:
			b.Loaded = b.Loaded.Add(tx.Amount)
		}
	}
	return b
}
