package model

import "context"

// Posting is a single listing observed on the watched page during one run.
type Posting struct {
	Title  string // job title as shown on the page
	URL    string // absolute link to the listing
	Posted string // recency label, e.g. "Posted Today"
}

// JobID identifies a job requisition across runs. It is derived from the
// posting URL and does not change when URL parameters change.
type JobID string

// ListingFetcher returns today's postings from the watched page, newest first.
type ListingFetcher interface {
	FetchPostings(ctx context.Context) ([]Posting, error)
}

// NotifiedStore persists the set of job IDs that have already been notified.
// Load never fails: an absent or unreadable store is an empty set.
type NotifiedStore interface {
	Load() *NotifiedSet
	Save(set *NotifiedSet) error
}

// Notifier sends one digest for a batch of new postings.
type Notifier interface {
	Notify(ctx context.Context, postings []Posting) error
}

// PostingFilter decides whether a posting is of interest.
type PostingFilter interface {
	Match(p Posting) bool
}
