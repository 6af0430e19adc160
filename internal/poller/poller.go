package poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amishk599/jobwatch/internal/model"
)

// IDExtractor derives a JobID from a posting URL.
type IDExtractor interface {
	Extract(url string) model.JobID
}

// Summary describes what a single run did.
type Summary struct {
	Fetched         int             // today's postings returned by the fetcher
	Matched         int             // postings left after the title filter
	AlreadyNotified int             // matched postings whose id was already stored
	New             []model.Posting // postings included in the digest, page order
	NewIDs          []model.JobID   // ids of New, same order
	Notified        bool            // a digest was sent and the store updated
}

// Poller owns one run of the pipeline for the watched site:
// fetch → filter → extract ids → diff → notify → persist.
type Poller struct {
	Name      string
	fetcher   model.ListingFetcher
	filter    model.PostingFilter
	extractor IDExtractor
	store     model.NotifiedStore
	notifier  model.Notifier
	logger    *slog.Logger
}

// NewPoller creates a poller wired with all its dependencies. filter may be
// nil to keep every posting.
func NewPoller(
	name string,
	fetcher model.ListingFetcher,
	filter model.PostingFilter,
	extractor IDExtractor,
	store model.NotifiedStore,
	notifier model.Notifier,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		Name:      name,
		fetcher:   fetcher,
		filter:    filter,
		extractor: extractor,
		store:     store,
		notifier:  notifier,
		logger:    logger,
	}
}

// Poll runs one cycle. The store is written only after the digest was sent,
// so a failed send leaves the postings to be reported again next run.
func (p *Poller) Poll(ctx context.Context) (Summary, error) {
	var sum Summary

	postings, err := p.fetcher.FetchPostings(ctx)
	if err != nil {
		return sum, fmt.Errorf("polling %s: %w", p.Name, err)
	}
	sum.Fetched = len(postings)
	p.logger.Info("fetched today's postings", "count", sum.Fetched)
	if len(postings) == 0 {
		return sum, nil
	}

	matched := postings
	if p.filter != nil {
		matched = make([]model.Posting, 0, len(postings))
		for _, posting := range postings {
			if p.filter.Match(posting) {
				matched = append(matched, posting)
			}
		}
	}
	sum.Matched = len(matched)
	if len(matched) == 0 {
		p.logger.Info("no postings passed the title filter")
		return sum, nil
	}

	notified := p.store.Load()

	batch := make(map[model.JobID]bool)
	for _, posting := range matched {
		id := p.extractor.Extract(posting.URL)
		if notified.Has(id) {
			sum.AlreadyNotified++
			p.logger.Debug("already notified", "id", id)
			continue
		}
		if batch[id] {
			p.logger.Debug("duplicate posting in batch", "id", id, "title", posting.Title)
			continue
		}
		batch[id] = true
		sum.New = append(sum.New, posting)
		sum.NewIDs = append(sum.NewIDs, id)
		p.logger.Info("new posting", "id", id, "title", posting.Title)
	}

	if len(sum.New) == 0 {
		p.logger.Info("no new postings since last run")
		return sum, nil
	}

	if err := p.notifier.Notify(ctx, sum.New); err != nil {
		return sum, fmt.Errorf("polling %s: notifying: %w", p.Name, err)
	}

	for _, id := range sum.NewIDs {
		notified.Add(id)
	}
	if err := p.store.Save(notified); err != nil {
		return sum, fmt.Errorf("polling %s: saving notified ids: %w", p.Name, err)
	}
	sum.Notified = true

	p.logger.Info("polled site",
		"site", p.Name,
		"fetched", sum.Fetched,
		"matched", sum.Matched,
		"new", len(sum.New),
		"already_notified", sum.AlreadyNotified,
	)
	return sum, nil
}

// Classify reports, for each posting, its id and whether it was already
// notified, without touching the notifier or saving. Used by the check command.
func (p *Poller) Classify(postings []model.Posting) ([]model.JobID, []bool) {
	notified := p.store.Load()
	ids := make([]model.JobID, len(postings))
	seen := make([]bool, len(postings))
	for i, posting := range postings {
		ids[i] = p.extractor.Extract(posting.URL)
		seen[i] = notified.Has(ids[i])
	}
	return ids, seen
}
