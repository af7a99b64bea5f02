package balance

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cachePrefix = "balance:v1:"
	cacheTTL    = time.Hour
)

type cachedProjection struct {
	Balance Balance `json:"balance"`
	LastTx  int64   `json:"last_tx"`
}

// Cache memoizes projections in Redis keyed by wallet id. It is purely a
// read-through optimization: entries are validated against the ledger's
// newest transaction id before use and a miss always falls back to full
// replay.
type Cache struct {
	client *redis.Client
}

// NewCache builds a projection cache over the provided Redis client.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get returns the cached balance for the wallet if it was projected at
// exactly lastTxID. Cache errors degrade to a miss.
func (c *Cache) Get(ctx context.Context, walletID string, lastTxID int64) (Balance, bool) {
	if c == nil || c.client == nil {
		return Balance{}, false
	}
	raw, err := c.client.Get(ctx, cachePrefix+walletID).Result()
	if err != nil {
		return Balance{}, false
	}
	var stored cachedProjection
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return Balance{}, false
	}
	if stored.LastTx != lastTxID {
		return Balance{}, false
	}
	return stored.Balance, true
}

// Put stores a projection computed at lastTxID. Failures are swallowed; the
// cache is never load-bearing.
func (c *Cache) Put(ctx context.Context, walletID string, b Balance, lastTxID int64) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(cachedProjection{Balance: b, LastTx: lastTxID})
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cachePrefix+walletID, raw, cacheTTL).Err()
}

// Invalidate drops the wallet's cached projection.
func (c *Cache) Invalidate(ctx context.Context, walletID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, cachePrefix+walletID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
