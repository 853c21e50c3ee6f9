package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/cardforge/og-render/internal/core/domain/render"
	"github.com/cardforge/og-render/internal/core/ports"
)

// ErrRenderFailed is returned once every render attempt for a key has been
// exhausted. It wraps the last underlying renderer error.
var ErrRenderFailed = errors.New("render failed")

// RenderConfig groups the orchestrator's retry and timeout policy.
type RenderConfig struct {
	// Attempts is the total number of render attempts per request.
	Attempts int
	// Backoff is the pause between attempts.
	Backoff time.Duration
	// Timeout bounds a single attempt.
	Timeout time.Duration
}

// RenderService resolves parameters to image bytes through the tiered cache,
// coalescing concurrent misses so the renderer runs at most once per key.
type RenderService struct {
	cache    ports.TieredCache
	renderer ports.Renderer
	group    singleflight.Group
	attempts int
	backoff  time.Duration
	timeout  time.Duration
	logger   *logrus.Logger
}

func NewRenderService(cache ports.TieredCache, renderer ports.Renderer, cfg *RenderConfig, logger *logrus.Logger) *RenderService {
	attempts := 3
	backoff := 250 * time.Millisecond
	timeout := 15 * time.Second
	if cfg != nil {
		if cfg.Attempts > 0 {
			attempts = cfg.Attempts
		}
		if cfg.Backoff > 0 {
			backoff = cfg.Backoff
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}
	return &RenderService{
		cache:    cache,
		renderer: renderer,
		attempts: attempts,
		backoff:  backoff,
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve implements ports.RenderService. The cache-hit path never touches
// the renderer. On a miss, callers for the same key share a single render
// and all receive the identical bytes it produced.
func (s *RenderService) Resolve(ctx context.Context, p *render.Params) ([]byte, ports.CacheTier, bool, error) {
	key := p.Key()

	if data, tier, ok := s.cache.Get(ctx, key); ok {
		return data, tier, true, nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		// The render that was in flight when we missed may have finished
		// and populated the cache before our turn came.
		if data, _, ok := s.cache.Get(ctx, key); ok {
			return data, nil
		}

		html, err := p.HTML()
		if err != nil {
			return nil, err
		}
		data, err := s.renderWithRetry(ctx, key, html, p.Geometry())
		if err != nil {
			return nil, err
		}
		// Only a successful render ever reaches the cache.
		s.cache.Put(ctx, key, data)
		return data, nil
	})
	if err != nil {
		return nil, "", false, err
	}
	if shared && s.logger != nil {
		s.logger.WithField("key", key).Debug("request coalesced onto in-flight render")
	}
	return v.([]byte), "", false, nil
}

func (s *RenderService) renderWithRetry(ctx context.Context, key, html string, g render.Geometry) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		data, err := s.renderOnce(ctx, html, g)
		if err == nil {
			rendersTotal.WithLabelValues("success").Inc()
			return data, nil
		}
		lastErr = err
		rendersTotal.WithLabelValues("failure").Inc()
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key, "attempt": attempt}).WithError(err).Warn("render attempt failed")
		}
		if attempt < s.attempts {
			select {
			case <-time.After(s.backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRenderFailed, s.attempts, lastErr)
}

// renderOnce runs a single bounded attempt on a fresh renderer session and
// releases the session on every exit path.
func (s *RenderService) renderOnce(ctx context.Context, html string, g render.Geometry) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.renderer.Acquire(attemptCtx)
	if err != nil {
		return nil, fmt.Errorf("acquire renderer session: %w", err)
	}
	defer session.Release()

	start := time.Now()
	data, err := session.Render(attemptCtx, html, g.Width, g.Height)
	renderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("renderer returned no bytes")
	}
	return data, nil
}
