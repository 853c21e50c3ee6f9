package ports

import (
	"context"
)

// RenderSession is one renderer lease. Release MUST be called on every exit
// path; a leaked session is a leaked browser tab or process.
type RenderSession interface {
	// Render rasterizes the given HTML at the given pixel size and returns
	// the encoded image bytes.
	Render(ctx context.Context, html string, width, height int) ([]byte, error)
	Release()
}

// Renderer abstracts the external rendering engine (a headless browser).
// Acquire hands out a fresh session so a failed attempt cannot leave later
// attempts with a poisoned one.
type Renderer interface {
	Acquire(ctx context.Context) (RenderSession, error)
	// Close shuts down the underlying engine.
	Close() error
}
