package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/amishk599/jobwatch/internal/model"
)

// DigestSubject states how many new postings the digest carries.
func DigestSubject(siteName string, count int) string {
	return fmt.Sprintf("%s: %d new job(s) posted today", siteName, count)
}

// DigestBody lists each posting as title, recency label and URL on their own
// lines, with a blank line between postings.
func DigestBody(postings []model.Posting) string {
	entries := make([]string, 0, len(postings))
	for _, p := range postings {
		entries = append(entries, p.Title+"\n"+p.Posted+"\n"+p.URL+"\n")
	}
	return strings.Join(entries, "\n")
}

// SendTestMessage sends a one-posting sample digest to verify delivery works.
func SendTestMessage(ctx context.Context, n model.Notifier) error {
	sample := model.Posting{
		Title:  "Test Notification: Delivery Verified",
		URL:    "https://nvidia.wd5.myworkdayjobs.com/NVIDIAExternalCareerSite/job/Test_JR0000000",
		Posted: "Posted Today",
	}
	return n.Notify(ctx, []model.Posting{sample})
}
