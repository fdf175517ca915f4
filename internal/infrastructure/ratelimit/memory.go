// Package ratelimit holds the in-process limiter used when Redis is not
// reachable.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultCleanupInterval = 5 * time.Minute

type entry struct {
	limiter    *rate.Limiter
	limit      int
	window     time.Duration
	lastAccess time.Time
}

// MemoryLimiter is a token bucket per key. Each bucket holds limit tokens and
// refills at limit per window, so it is smoother than the Redis fixed window
// but admits the same steady rate. State is lost on restart and not shared
// between replicas.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

// NewMemoryLimiter starts a background sweep of idle keys. Call Stop when done.
func NewMemoryLimiter(cleanupInterval time.Duration) *MemoryLimiter {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}
	l := &MemoryLimiter{
		entries: make(map[string]*entry),
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go l.cleanupLoop(cleanupInterval)
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || e.limit != limit || e.window != window {
		e = &entry{
			limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit),
			limit:   limit,
			window:  window,
		}
		l.entries[key] = e
	}
	e.lastAccess = now
	return e.limiter.AllowN(now, 1), nil
}

// Len reports how many keys are tracked.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *MemoryLimiter) Stop() {
	l.once.Do(func() { close(l.stopCh) })
}

func (l *MemoryLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep(interval)
		case <-l.stopCh:
			return
		}
	}
}

// sweep drops keys idle for longer than both their window and maxIdle, at
// which point their bucket would be full again anyway.
func (l *MemoryLimiter) sweep(maxIdle time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		idle := now.Sub(e.lastAccess)
		if idle > maxIdle && idle > e.window {
			delete(l.entries, key)
		}
	}
}
