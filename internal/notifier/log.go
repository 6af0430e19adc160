package notifier

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobwatch/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new postings to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each posting via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each posting with title, recency label and URL.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(_ context.Context, postings []model.Posting) error {
	for _, p := range postings {
		n.logger.Info("new posting", "title", p.Title, "posted", p.Posted, "url", p.URL)
	}
	return nil
}
