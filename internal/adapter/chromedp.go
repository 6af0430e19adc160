package adapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"

	"github.com/amishk599/jobwatch/internal/model"
)

// ChromedpRenderer drives a local Chrome over the DevTools protocol.
type ChromedpRenderer struct {
	opts   RenderOptions
	logger *slog.Logger
}

// NewChromedpRenderer returns a renderer that starts Chrome per call.
func NewChromedpRenderer(opts RenderOptions, logger *slog.Logger) *ChromedpRenderer {
	return &ChromedpRenderer{opts: opts, logger: logger}
}

func (r *ChromedpRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.opts.Headless),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	// Start the browser on taskCtx; a timeout on the first Run would tear
	// the browser down with it.
	if err := chromedp.Run(taskCtx); err != nil {
		return "", fmt.Errorf("starting chrome: %w", err)
	}

	navCtx, cancelNav := context.WithTimeout(taskCtx, waitTimeout(ctx, r.opts.Timeout))
	defer cancelNav()

	r.logger.Debug("navigating", "url", pageURL)
	resp, err := chromedp.RunResponse(navCtx, chromedp.Navigate(pageURL))
	if err != nil {
		return "", fmt.Errorf("navigating: %w", err)
	}
	if resp != nil && resp.Status >= 400 {
		return "", &model.HTTPError{StatusCode: int(resp.Status), URL: pageURL}
	}

	if err := r.waitVisible(taskCtx, selectorJobCount); err != nil {
		return "", err
	}

	scroll := chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseWheel, 0, 0).
			WithDeltaX(0).
			WithDeltaY(float64(r.opts.ScrollPixels)).
			Do(ctx)
	})
	if err := chromedp.Run(taskCtx, scroll); err != nil {
		return "", fmt.Errorf("scrolling: %w", err)
	}

	if err := r.waitVisible(taskCtx, selectorJobTitle); err != nil {
		return "", err
	}

	var html string
	if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading page content: %w", err)
	}
	return html, nil
}

func (r *ChromedpRenderer) waitVisible(ctx context.Context, selector string) error {
	waitCtx, cancel := context.WithTimeout(ctx, waitTimeout(ctx, r.opts.Timeout))
	defer cancel()

	r.logger.Debug("waiting for element", "selector", selector)
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	return nil
}
