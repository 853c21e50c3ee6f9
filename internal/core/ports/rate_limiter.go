package ports

import (
	"context"
	"time"
)

// RateLimitStore provides low-level atomic counters for rate limiting.
// Implementations MUST be safe for concurrent use.
type RateLimitStore interface {
	// IncrementWindow atomically increments the request counter for the
	// client in the current fixed window and ensures the counter is
	// discarded after ttl. Returns the updated count and the window start.
	IncrementWindow(ctx context.Context, clientID string, window time.Duration, ttl time.Duration) (count int, windowStart time.Time, err error)
}

// RateLimiterService defines a per-client rate limiting capability.
type RateLimiterService interface {
	// Allow consumes one request unit for the client and reports whether it
	// is permitted, plus the values needed for X-RateLimit-* headers.
	Allow(ctx context.Context, clientID string) (allowed bool, remaining int, limit int, reset time.Time, err error)
}
