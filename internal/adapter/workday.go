package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/amishk599/jobwatch/internal/filter"
	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/ratelimit"
)

// Ensure WorkdayAPIAdapter implements model.ListingFetcher.
var _ model.ListingFetcher = (*WorkdayAPIAdapter)(nil)

const workdayPageSize = 20

// workdayListingResponse is the response from the Workday jobs listing endpoint.
type workdayListingResponse struct {
	Total       int              `json:"total"`
	JobPostings []workdayListing `json:"jobPostings"`
}

type workdayListing struct {
	Title        string `json:"title"`
	ExternalPath string `json:"externalPath"`
	PostedOn     string `json:"postedOn"`
}

// workdayListingRequest is the POST body for the Workday jobs listing endpoint.
type workdayListingRequest struct {
	AppliedFacets map[string][]string `json:"appliedFacets"`
	Limit         int                 `json:"limit"`
	Offset        int                 `json:"offset"`
	SearchText    string              `json:"searchText"`
}

// WorkdayEndpoint locates the JSON listing API behind a Workday career page.
type WorkdayEndpoint struct {
	JobsURL  string              // POST target, .../wday/cxs/{tenant}/{site}/jobs
	SiteRoot string              // prefix for externalPath, https://{host}/{site}
	Facets   map[string][]string // page query parameters, e.g. locationHierarchy1
}

var localeSegment = regexp.MustCompile(`^[a-z]{2}-[A-Z]{2}$`)

// WorkdayEndpointFromPageURL derives the listing API from a career page URL
// such as https://nvidia.wd5.myworkdayjobs.com/en-US/NVIDIAExternalCareerSite?locationHierarchy1=abc.
func WorkdayEndpointFromPageURL(pageURL string) (WorkdayEndpoint, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return WorkdayEndpoint{}, fmt.Errorf("parse workday url %q: %w", pageURL, err)
	}
	if u.Host == "" {
		return WorkdayEndpoint{}, fmt.Errorf("workday url %q has no host", pageURL)
	}

	tenant, _, _ := strings.Cut(u.Hostname(), ".")

	var site string
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if seg == "" || localeSegment.MatchString(seg) {
			continue
		}
		site = seg
		break
	}
	if site == "" {
		return WorkdayEndpoint{}, fmt.Errorf("workday url %q has no career site path", pageURL)
	}

	facets := make(map[string][]string)
	for k, v := range u.Query() {
		facets[k] = v
	}

	origin := u.Scheme + "://" + u.Host
	return WorkdayEndpoint{
		JobsURL:  origin + "/wday/cxs/" + tenant + "/" + site + "/jobs",
		SiteRoot: origin + "/" + site,
		Facets:   facets,
	}, nil
}

// WorkdayAPIAdapter reads today's postings from the Workday listing API
// instead of rendering the page. Like the page, the API returns postings
// newest first; collection stops at the first posting not labelled today.
type WorkdayAPIAdapter struct {
	endpoint WorkdayEndpoint
	client   *http.Client
	pacer    *ratelimit.Pacer
	logger   *slog.Logger
}

// NewWorkdayAPIAdapter creates a fetcher for the given endpoint. pacer spaces
// out page requests and may be nil.
func NewWorkdayAPIAdapter(endpoint WorkdayEndpoint, client *http.Client, pacer *ratelimit.Pacer, logger *slog.Logger) *WorkdayAPIAdapter {
	return &WorkdayAPIAdapter{
		endpoint: endpoint,
		client:   client,
		pacer:    pacer,
		logger:   logger,
	}
}

// FetchPostings pages through the listing endpoint until it sees a posting
// that is not from today or runs out of results.
func (a *WorkdayAPIAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	var postings []model.Posting
	offset := 0

	for {
		if err := a.pacer.Wait(ctx); err != nil {
			return nil, err
		}
		page, err := a.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}

		for _, l := range page.JobPostings {
			if !filter.IsToday(l.PostedOn) {
				return postings, nil
			}
			postings = append(postings, model.Posting{
				Title:  strings.TrimSpace(l.Title),
				URL:    a.postingURL(l.ExternalPath),
				Posted: l.PostedOn,
			})
		}

		offset += workdayPageSize
		if len(page.JobPostings) == 0 || offset >= page.Total {
			return postings, nil
		}
		a.logger.Debug("all postings on page are from today, fetching next page", "offset", offset)
	}
}

func (a *WorkdayAPIAdapter) fetchPage(ctx context.Context, offset int) (*workdayListingResponse, error) {
	body := workdayListingRequest{
		AppliedFacets: a.endpoint.Facets,
		Limit:         workdayPageSize,
		Offset:        offset,
	}
	if body.AppliedFacets == nil {
		body.AppliedFacets = map[string][]string{}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("workday listing marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint.JobsURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("workday listing request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workday listing fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			URL:        a.endpoint.JobsURL,
			Err:        fmt.Errorf("workday listing fetch: unexpected status %d", resp.StatusCode),
		}
	}

	var listResp workdayListingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("workday listing decode: %w", err)
	}
	return &listResp, nil
}

func (a *WorkdayAPIAdapter) postingURL(externalPath string) string {
	if externalPath == "" {
		return ""
	}
	return strings.TrimRight(a.endpoint.SiteRoot, "/") + "/" + strings.TrimLeft(externalPath, "/")
}
