package renderer

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/cardforge/og-render/internal/core/ports"
)

// ChromeRenderer implements ports.Renderer on headless Chrome. One browser
// process is shared; every Acquire opens a fresh tab so a crashed or
// timed-out render cannot poison later attempts.
type ChromeRenderer struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	logger      *logrus.Logger
}

func NewChromeRenderer(logger *logrus.Logger) *ChromeRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("force-device-scale-factor", "1"),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromeRenderer{allocCtx: allocCtx, cancelAlloc: cancel, logger: logger}
}

// Acquire implements ports.Renderer.
func (r *ChromeRenderer) Acquire(ctx context.Context) (ports.RenderSession, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.allocCtx)
	return &chromeSession{ctx: tabCtx, cancel: cancelTab}, nil
}

// Close implements ports.Renderer. Cancelling the allocator tears down the
// browser process and any tabs still open.
func (r *ChromeRenderer) Close() error {
	r.cancelAlloc()
	if r.logger != nil {
		r.logger.Info("headless browser shut down")
	}
	return nil
}

type chromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Render implements ports.RenderSession.
func (s *chromeSession) Render(ctx context.Context, html string, width, height int) ([]byte, error) {
	// Run inside the tab's context but honor the attempt deadline so a hung
	// tab is cancelled, not abandoned.
	runCtx := s.ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(s.ctx, deadline)
		defer cancel()
	}

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp render: %w", err)
	}
	return buf, nil
}

// Release implements ports.RenderSession by closing the tab.
func (s *chromeSession) Release() {
	s.cancel()
}
