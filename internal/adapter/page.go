package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amishk599/jobwatch/internal/model"
)

// Ensure PageAdapter implements model.ListingFetcher.
var _ model.ListingFetcher = (*PageAdapter)(nil)

// Renderer loads a page in a real browser, waits for the job list to render
// and returns the resulting HTML.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// renderSteps counts the bounded waits in one render: navigation, the
// results counter and the first job title.
const renderSteps = 3

// RenderOptions are shared by the browser renderers.
type RenderOptions struct {
	Timeout      time.Duration // bound on each wait: navigation and element waits
	ScrollPixels int           // mouse wheel distance used to trigger lazy rendering
	Headless     bool
}

// Budget is the deadline for a whole render, one Timeout per bounded step.
func (o RenderOptions) Budget() time.Duration {
	return renderSteps * o.Timeout
}

// PageAdapter fetches today's postings by rendering the listing page in a
// browser and parsing the result.
//
// Precondition: the page lists postings newest first. If the site ever
// interleaves older postings, today's postings after the first older one are
// not returned.
type PageAdapter struct {
	pageURL  string
	renderer Renderer
	budget   time.Duration
	logger   *slog.Logger
}

// NewPageAdapter creates a fetcher for the listing at pageURL. Each render is
// cancelled after budget; zero leaves only the caller's deadline.
func NewPageAdapter(pageURL string, renderer Renderer, budget time.Duration, logger *slog.Logger) *PageAdapter {
	return &PageAdapter{
		pageURL:  pageURL,
		renderer: renderer,
		budget:   budget,
		logger:   logger,
	}
}

// FetchPostings renders the page and returns the postings labelled "today".
func (a *PageAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	if a.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.budget)
		defer cancel()
	}

	start := time.Now()
	html, err := a.renderer.Render(ctx, a.pageURL)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", a.pageURL, err)
	}
	a.logger.Debug("page rendered", "bytes", len(html), "elapsed", time.Since(start).Round(time.Millisecond))

	postings, err := ParseListing(strings.NewReader(html), a.pageURL)
	if err != nil {
		return nil, err
	}
	return postings, nil
}

// minWait keeps a nearly spent deadline from turning into "no timeout" for
// drivers that treat zero as unbounded.
const minWait = time.Millisecond

// waitTimeout returns the smaller of the configured wait and the time left
// on ctx, never less than minWait.
func waitTimeout(ctx context.Context, configured time.Duration) time.Duration {
	wait := configured
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < wait {
			wait = left
		}
	}
	if wait < minWait {
		return minWait
	}
	return wait
}
