package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TokenStore deletes expired refresh tokens
type TokenStore interface {
	DeleteExpiredTokens(ctx context.Context) error
}

// TokenCleanup periodically removes expired refresh tokens
type TokenCleanup struct {
	store    TokenStore
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewTokenCleanup creates a new token cleanup job
func NewTokenCleanup(store TokenStore, interval time.Duration) *TokenCleanup {
	if interval == 0 {
		interval = 24 * time.Hour
	}
	return &TokenCleanup{
		store:    store,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the cleanup job
func (c *TokenCleanup) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run()
	slog.Info("token cleanup started", "interval", c.interval)
}

// Stop gracefully stops the cleanup job
func (c *TokenCleanup) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	close(c.stopCh)
	c.wg.Wait()
	slog.Info("token cleanup stopped")
}

func (c *TokenCleanup) run() {
	defer c.wg.Done()

	// Run immediately on start
	c.cleanup()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *TokenCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := c.RunOnce(ctx); err != nil {
		slog.Error("token cleanup failed", "error", err)
	}
}

// RunOnce deletes expired tokens once (for testing or manual trigger)
func (c *TokenCleanup) RunOnce(ctx context.Context) error {
	return c.store.DeleteExpiredTokens(ctx)
}

// IsRunning returns whether the cleanup job is running
func (c *TokenCleanup) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
