package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/elegantjewelry/jewelbox-backend/pkg/enums"
)

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", goredis.Nil
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return true, nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
		delete(f.ttls, key)
	}
	return nil
}

func (f *fakeRedis) CheckoutSessionKey(userID string) string {
	return "jb:checkout:" + userID
}

func (f *fakeRedis) CheckoutLockKey(userID string) string {
	return "jb:lock:checkout:" + userID
}

func TestStoreRoundTrip(t *testing.T) {
	redis := newFakeRedis()
	store, err := NewStore(redis, 2*time.Hour, 35*time.Second)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()
	userID := uuid.New()

	if _, err := store.Load(ctx, userID.String()); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	session := &Session{
		UserID:    userID,
		Step:      enums.CheckoutStepPayment,
		CreatedAt: time.Now(),
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx, userID.String())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Step != enums.CheckoutStepPayment || loaded.UserID != userID {
		t.Fatalf("unexpected session %+v", loaded)
	}

	key := redis.CheckoutSessionKey(userID.String())
	if redis.ttls[key] != 2*time.Hour {
		t.Fatalf("expected session TTL 2h, got %s", redis.ttls[key])
	}

	if err := store.Delete(ctx, userID.String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, userID.String()); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession after delete, got %v", err)
	}
}

func TestStoreSubmitLock(t *testing.T) {
	redis := newFakeRedis()
	store, err := NewStore(redis, time.Hour, 35*time.Second)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()
	userID := uuid.NewString()

	acquired, err := store.AcquireSubmitLock(ctx, userID)
	if err != nil || !acquired {
		t.Fatalf("expected lock acquired, got acquired=%v err=%v", acquired, err)
	}

	acquired, err = store.AcquireSubmitLock(ctx, userID)
	if err != nil || acquired {
		t.Fatalf("expected second acquire refused, got acquired=%v err=%v", acquired, err)
	}

	if redis.ttls[redis.CheckoutLockKey(userID)] != 35*time.Second {
		t.Fatalf("expected lock TTL 35s, got %s", redis.ttls[redis.CheckoutLockKey(userID)])
	}

	if err := store.ReleaseSubmitLock(ctx, userID); err != nil {
		t.Fatalf("ReleaseSubmitLock: %v", err)
	}
	acquired, err = store.AcquireSubmitLock(ctx, userID)
	if err != nil || !acquired {
		t.Fatalf("expected reacquire after release, got acquired=%v err=%v", acquired, err)
	}
}
