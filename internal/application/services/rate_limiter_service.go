package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cardforge/og-render/internal/core/ports"
)

// RateLimiterService implements a fixed-window limiter keyed by client
// identity. Store errors fail open: serving a request past the limit is
// preferable to refusing traffic because the counter store hiccuped.
type RateLimiterService struct {
	store  ports.RateLimitStore
	limit  int
	window time.Duration
	logger *logrus.Logger
}

// RateLimiterConfig groups configuration parameters for the rate limiter.
type RateLimiterConfig struct {
	MaxRequests int
	Window      time.Duration
}

func NewRateLimiterService(store ports.RateLimitStore, cfg *RateLimiterConfig, logger *logrus.Logger) *RateLimiterService {
	limit := 60
	window := time.Minute
	if cfg != nil {
		if cfg.MaxRequests > 0 {
			limit = cfg.MaxRequests
		}
		if cfg.Window > 0 {
			window = cfg.Window
		}
	}
	return &RateLimiterService{store: store, limit: limit, window: window, logger: logger}
}

func (s *RateLimiterService) Allow(ctx context.Context, clientID string) (bool, int, int, time.Time, error) {
	// Retain counters one extra window so late stragglers still count.
	ttl := s.window * 2
	count, windowStart, err := s.store.IncrementWindow(ctx, clientID, s.window, ttl)
	reset := windowStart.Add(s.window)
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("client_id", clientID).WithError(err).Error("rate limiter: failed to increment window")
		}
		return true, s.limit, s.limit, reset, err
	}
	if count > s.limit {
		return false, 0, s.limit, reset, nil
	}
	return true, s.limit - count, s.limit, reset, nil
}
