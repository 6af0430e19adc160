package filter

import (
	"strings"

	"github.com/amishk599/jobwatch/internal/model"
)

// IsToday reports whether a recency label such as "Posted Today" marks a
// posting from today. Matching is a case-insensitive substring check.
func IsToday(label string) bool {
	return strings.Contains(strings.ToLower(label), "today")
}

// TitleFilter matches postings whose title contains any of the include
// keywords and none of the exclude keywords. Matching is case-insensitive.
// An empty include list is treated as "match all".
type TitleFilter struct {
	include []string
	exclude []string
}

// NewTitleFilter returns a filter over posting titles.
func NewTitleFilter(include, exclude []string) *TitleFilter {
	return &TitleFilter{
		include: lowerAll(include),
		exclude: lowerAll(exclude),
	}
}

// Match returns true if the posting's title passes both keyword lists.
func (f *TitleFilter) Match(p model.Posting) bool {
	title := strings.ToLower(p.Title)

	for _, kw := range f.exclude {
		if strings.Contains(title, kw) {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}
	for _, kw := range f.include {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// Empty reports whether the filter lets every posting through.
func (f *TitleFilter) Empty() bool {
	return len(f.include) == 0 && len(f.exclude) == 0
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
