package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore counts requests per key within a fixed window. Implementations
// must expire a key once its window has passed so counters reset naturally.
// The store is injected into the RateLimiter so single-instance deployments
// can run on the in-memory store while multi-instance deployments share a
// Redis-backed one.
type CounterStore interface {
	// Incr increments the counter for key and returns the new count.
	Incr(ctx context.Context, key string, window time.Duration) (int, error)
}

// RedisCounterStore counts requests in Redis so the limit holds across
// multiple service instances.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore creates a Redis-backed counter store
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

// Incr implements CounterStore using an INCR+EXPIRE pipeline
func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int, error) {
	pipe := s.client.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return int(incrCmd.Val()), nil
}

// MemoryCounterStore keeps counters in process memory. Only suitable for
// single-instance deployments.
type MemoryCounterStore struct {
	mu     sync.Mutex
	counts map[string]*memoryCounter
}

type memoryCounter struct {
	count     int
	expiresAt time.Time
}

// NewMemoryCounterStore creates an in-process counter store
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{counts: make(map[string]*memoryCounter)}
}

// Incr implements CounterStore
func (s *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.counts[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &memoryCounter{expiresAt: now.Add(window)}
		s.counts[key] = entry
	}
	entry.count++

	s.prune(now)

	return entry.count, nil
}

// prune drops expired counters. Called with the lock held; the map stays
// small because keys are per-client-and-window.
func (s *MemoryCounterStore) prune(now time.Time) {
	for key, entry := range s.counts {
		if now.After(entry.expiresAt) {
			delete(s.counts, key)
		}
	}
}
