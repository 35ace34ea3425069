package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return true, nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func TestLocalLockIsExclusive(t *testing.T) {
	ctx := context.Background()
	lock := NewLocalLock()
	ok, _ := lock.Acquire(ctx)
	if !ok {
		t.Fatal("expected first acquire to succeed")
	}
	if ok, _ := lock.Acquire(ctx); ok {
		t.Fatal("expected second acquire to fail while held")
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("expected acquire after release to succeed")
	}
}

func TestRedisLockOwnership(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	first, err := NewRedisLock(store, "grocer:lock:monitor", 0)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	second, _ := NewRedisLock(store, "grocer:lock:monitor", time.Minute)

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("expected first acquire, got %v %v", ok, err)
	}
	if store.ttls["grocer:lock:monitor"] != defaultLockTTL {
		t.Fatalf("expected default ttl, got %v", store.ttls["grocer:lock:monitor"])
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatal("second instance must not acquire a held lock")
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("non-owner release: %v", err)
	}
	if _, ok := store.values["grocer:lock:monitor"]; !ok {
		t.Fatal("non-owner release removed the lock")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("owner release: %v", err)
	}
	if _, ok := store.values["grocer:lock:monitor"]; ok {
		t.Fatal("owner release kept the lock")
	}
	if _, err := NewRedisLock(nil, "k", 0); err == nil {
		t.Fatal("expected nil client to fail")
	}
}
