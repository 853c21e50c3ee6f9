package ports

import (
	"context"

	"github.com/cardforge/og-render/internal/core/domain/render"
)

// RenderService resolves rendering parameters to image bytes, serving from
// the tiered cache when possible and rendering at most once per key
// otherwise. cached=false means the bytes came from a fresh render.
type RenderService interface {
	Resolve(ctx context.Context, p *render.Params) (data []byte, tier CacheTier, cached bool, err error)
}
