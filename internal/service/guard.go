package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IngestGuard serializes ingestion runs per (query, location) pair.
// TryAcquire returns false when another run holds the key; Release frees it.
// The TTL bounds how long a crashed run can block the pair.
type IngestGuard interface {
	TryAcquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// GuardKey builds the canonical guard key for an ingestion pair.
func GuardKey(query, location string) string {
	return fmt.Sprintf("ingest:%s:%s",
		strings.ToLower(strings.TrimSpace(query)),
		strings.ToLower(strings.TrimSpace(location)))
}

// MemoryGuard is a process-local guard for single-instance deployments.
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]time.Time
	ttl  time.Duration
}

// NewMemoryGuard creates an in-process guard with the given lock lifetime.
func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{
		held: make(map[string]time.Time),
		ttl:  ttl,
	}
}

// TryAcquire takes the key unless it is held and unexpired.
func (g *MemoryGuard) TryAcquire(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if expiry, ok := g.held[key]; ok && time.Now().Before(expiry) {
		return false, nil
	}
	g.held[key] = time.Now().Add(g.ttl)
	return true, nil
}

// Release frees the key.
func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}

// RedisGuard is a distributed guard backed by Redis SET NX, for deployments
// running more than one server instance.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard creates a guard on the given Redis connection.
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{
		client: client,
		ttl:    ttl,
	}
}

// TryAcquire takes the key via SET NX with the guard TTL.
func (g *RedisGuard) TryAcquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, key, "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("guard acquire: %w", err)
	}
	return ok, nil
}

// Release deletes the key.
func (g *RedisGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("guard release: %w", err)
	}
	return nil
}
