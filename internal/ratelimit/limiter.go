// Package ratelimit guards the model-backed endpoints, which each cost up
// to three generative API calls.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arthsathi/arthsathi/internal/domain"
)

// Limiter decides whether a client key (normally the remote IP) may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// New creates a limiter from configuration. A disabled config returns a
// pass-through limiter.
func New(cfg domain.RateLimitConfig) (Limiter, error) {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return noopLimiter{}, nil
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryLimiter(cfg.RequestsPerMinute, time.Minute), nil
	case "redis":
		return NewRedisLimiter(cfg)
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", cfg.Backend)
	}
}

type noopLimiter struct{}

func (noopLimiter) Allow(ctx context.Context, key string) (bool, error) { return true, nil }
func (noopLimiter) Close() error                                        { return nil }

const (
	bucketIdleThreshold = time.Hour
	cleanupInterval     = 30 * time.Minute
)

type clientBucket struct {
	tokens     int
	lastRefill time.Time
}

// MemoryLimiter is a per-key token bucket with background cleanup of idle
// buckets.
type MemoryLimiter struct {
	mu          sync.Mutex
	capacity    int
	refillDur   time.Duration
	clients     map[string]*clientBucket
	stopCleanup chan struct{}
}

// NewMemoryLimiter creates a token-bucket limiter allowing capacity
// requests per refill window.
func NewMemoryLimiter(capacity int, refillDur time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		capacity:    capacity,
		refillDur:   refillDur,
		clients:     make(map[string]*clientBucket),
		stopCleanup: make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow consumes one token for key, refilling the bucket when the window
// has elapsed.
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	bucket, exists := l.clients[key]

	if !exists {
		l.clients[key] = &clientBucket{
			tokens:     l.capacity - 1,
			lastRefill: now,
		}
		return true, nil
	}

	if now.Sub(bucket.lastRefill) >= l.refillDur {
		bucket.tokens = l.capacity
		bucket.lastRefill = now
	}

	if bucket.tokens <= 0 {
		return false, nil
	}

	bucket.tokens--
	return true, nil
}

// Close stops the cleanup goroutine.
func (l *MemoryLimiter) Close() error {
	close(l.stopCleanup)
	return nil
}

func (l *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *MemoryLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, bucket := range l.clients {
		if now.Sub(bucket.lastRefill) > bucketIdleThreshold {
			delete(l.clients, key)
		}
	}
}
