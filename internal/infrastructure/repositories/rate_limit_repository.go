package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type windowCounter struct {
	count     int
	expiresAt time.Time
}

// RateLimitMemoryRepository implements fixed-window rate limit counters in
// process memory. Counters are pruned lazily whenever a new window opens.
type RateLimitMemoryRepository struct {
	mu      sync.Mutex
	windows map[string]*windowCounter
}

func NewRateLimitMemoryRepository() *RateLimitMemoryRepository {
	return &RateLimitMemoryRepository{windows: make(map[string]*windowCounter)}
}

// IncrementWindow increments the per-client counter for the current fixed
// window and returns the updated count and window start.
func (r *RateLimitMemoryRepository) IncrementWindow(ctx context.Context, clientID string, window time.Duration, ttl time.Duration) (int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(window)
	key := fmt.Sprintf("%s:%d", clientID, windowStart.Unix())

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[key]
	if !ok {
		r.prune(now)
		w = &windowCounter{expiresAt: now.Add(ttl)}
		r.windows[key] = w
	}
	w.count++
	return w.count, windowStart, nil
}

// prune drops counters whose retention has passed. Caller holds the lock.
func (r *RateLimitMemoryRepository) prune(now time.Time) {
	for key, w := range r.windows {
		if now.After(w.expiresAt) {
			delete(r.windows, key)
		}
	}
}
