package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/playwright-community/playwright-go"

	"github.com/amishk599/jobwatch/internal/model"
)

// PlaywrightRenderer drives headless Chromium through playwright.
type PlaywrightRenderer struct {
	opts   RenderOptions
	logger *slog.Logger
}

// NewPlaywrightRenderer returns a renderer; the browser is launched per call.
func NewPlaywrightRenderer(opts RenderOptions, logger *slog.Logger) *PlaywrightRenderer {
	return &PlaywrightRenderer{opts: opts, logger: logger}
}

// InstallPlaywrightBrowser downloads the playwright driver and Chromium.
func InstallPlaywrightBrowser() error {
	return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
}

// Render ignores ctx cancellation while a driver call is in flight; each call
// is bounded by the time left on ctx instead.
func (r *PlaywrightRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	pw, err := playwright.Run()
	if err != nil {
		return "", fmt.Errorf("starting playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(r.opts.Headless),
	})
	if err != nil {
		return "", fmt.Errorf("launching chromium: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, err := page.Goto(pageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(r.timeoutMillis(ctx)),
	})
	if err != nil {
		return "", fmt.Errorf("navigating: %w", err)
	}
	if resp != nil && resp.Status() >= http.StatusBadRequest {
		return "", &model.HTTPError{StatusCode: resp.Status(), URL: pageURL}
	}

	if err := r.waitFor(ctx, page, selectorJobCount); err != nil {
		return "", err
	}

	if err := page.Mouse().Wheel(0, float64(r.opts.ScrollPixels)); err != nil {
		return "", fmt.Errorf("scrolling: %w", err)
	}

	if err := r.waitFor(ctx, page, selectorJobTitle); err != nil {
		return "", err
	}

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("reading page content: %w", err)
	}
	return html, nil
}

func (r *PlaywrightRenderer) waitFor(ctx context.Context, page playwright.Page, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.logger.Debug("waiting for element", "selector", selector)
	err := page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(r.timeoutMillis(ctx)),
	})
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	return nil
}

func (r *PlaywrightRenderer) timeoutMillis(ctx context.Context) float64 {
	return float64(waitTimeout(ctx, r.opts.Timeout).Milliseconds())
}
