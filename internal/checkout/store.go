package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrNoSession signals that the user has no checkout in progress.
var ErrNoSession = errors.New("no checkout session")

type redisClient interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutSessionKey(userID string) string
	CheckoutLockKey(userID string) string
}

// Store keeps checkout sessions in Redis, one per user, refreshed on every
// write so an active checkout never expires mid-wizard.
type Store struct {
	redis      redisClient
	sessionTTL time.Duration
	lockTTL    time.Duration
}

func NewStore(redis redisClient, sessionTTL, lockTTL time.Duration) (*Store, error) {
	if redis == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if sessionTTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	if lockTTL <= 0 {
		return nil, fmt.Errorf("lock ttl must be positive")
	}
	return &Store{redis: redis, sessionTTL: sessionTTL, lockTTL: lockTTL}, nil
}

// Load fetches the user's session, or ErrNoSession when absent.
func (s *Store) Load(ctx context.Context, userID string) (*Session, error) {
	raw, err := s.redis.Get(ctx, s.redis.CheckoutSessionKey(userID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	return &session, nil
}

// Save writes the session back and resets its TTL.
func (s *Store) Save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now()
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode checkout session: %w", err)
	}
	key := s.redis.CheckoutSessionKey(session.UserID.String())
	return s.redis.Set(ctx, key, string(raw), s.sessionTTL)
}

// Delete removes the session, typically after a successful submit.
func (s *Store) Delete(ctx context.Context, userID string) error {
	return s.redis.Del(ctx, s.redis.CheckoutSessionKey(userID))
}

// AcquireSubmitLock takes the per-user submit lock. The lock carries a TTL so
// a crashed submit cannot wedge the user's checkout forever.
func (s *Store) AcquireSubmitLock(ctx context.Context, userID string) (bool, error) {
	return s.redis.SetNX(ctx, s.redis.CheckoutLockKey(userID), "1", s.lockTTL)
}

// ReleaseSubmitLock frees the per-user submit lock.
func (s *Store) ReleaseSubmitLock(ctx context.Context, userID string) error {
	return s.redis.Del(ctx, s.redis.CheckoutLockKey(userID))
}
