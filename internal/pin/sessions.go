package pin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const unlockPrefix = "pin:unlocked:v1:"

// Sessions tracks which wallets are currently unlocked. An unlock expires
// after its TTL, after which the gate demands the PIN again.
type Sessions interface {
	Open(ctx context.Context, walletID string) error
	IsUnlocked(ctx context.Context, walletID string) (bool, error)
}

// RedisSessions stores unlock sessions in Redis so every instance sees them.
type RedisSessions struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessions builds a session store with the given unlock TTL.
func NewRedisSessions(client *redis.Client, ttl time.Duration) *RedisSessions {
	return &RedisSessions{client: client, ttl: ttl}
}

// Open marks the wallet unlocked for the session TTL.
func (s *RedisSessions) Open(ctx context.Context, walletID string) error {
	return s.client.Set(ctx, unlockPrefix+walletID, "1", s.ttl).Err()
}

// IsUnlocked reports whether the wallet has a live unlock session.
func (s *RedisSessions) IsUnlocked(ctx context.Context, walletID string) (bool, error) {
	if err := s.client.Get(ctx, unlockPrefix+walletID).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type memorySessions struct {
	mu      sync.Mutex
	expires map[string]time.Time
	ttl     time.Duration
}

// NewMemorySessions builds an in-process session store for tests and
// redis-less development runs.
func NewMemorySessions(ttl time.Duration) Sessions {
	return &memorySessions{expires: make(map[string]time.Time), ttl: ttl}
}

func (s *memorySessions) Open(_ context.Context, walletID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[walletID] = time.Now().Add(s.ttl)
	return nil
}

func (s *memorySessions) IsUnlocked(_ context.Context, walletID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expires[walletID]
	if !ok || time.Now().After(exp) {
		delete(s.expires, walletID)
		return false, nil
	}
	return true, nil
}
