package adapter

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobwatch/internal/filter"
	"github.com/amishk599/jobwatch/internal/model"
)

// Workday listing page selectors.
const (
	selectorJobCount = `[data-automation-id="jobFoundText"]`
	selectorJobTitle = `[data-automation-id="jobTitle"]`
	selectorPostedOn = `[data-automation-id="postedOn"]`
)

// ParseListing reads today's postings from a rendered listing page.
//
// Title and recency-label elements are paired in document order. Collection
// stops at the first label that does not say "today": the page is sorted
// newest first, so everything after that point is older. Relative hrefs are
// resolved against pageURL.
func ParseListing(r io.Reader, pageURL string) ([]model.Posting, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url %q: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	titles := doc.Find(selectorJobTitle)
	labels := doc.Find(selectorPostedOn)
	n := min(titles.Length(), labels.Length())

	postings := make([]model.Posting, 0, n)
	for i := 0; i < n; i++ {
		label := postedLabel(labels.Eq(i))
		if !filter.IsToday(label) {
			break
		}

		title := titles.Eq(i)
		href, _ := title.Attr("href")
		postings = append(postings, model.Posting{
			Title:  collapseSpace(title.Text()),
			URL:    resolveHref(base, href),
			Posted: label,
		})
	}
	return postings, nil
}

// postedLabel returns the visible recency text. Workday wraps it in a
// <dl><dt>posted on</dt><dd>Posted Today</dd></dl>; the <dd> is preferred.
func postedLabel(sel *goquery.Selection) string {
	if dd := collapseSpace(sel.Find("dd").First().Text()); dd != "" {
		return dd
	}
	return collapseSpace(sel.Text())
}

func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
