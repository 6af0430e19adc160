package filter

import (
	"testing"

	"github.com/amishk599/jobwatch/internal/model"
)

func posting(title string) model.Posting {
	return model.Posting{Title: title, Posted: "Posted Today"}
}

func TestTitleFilter_Match(t *testing.T) {
	tests := []struct {
		name      string
		include   []string
		exclude   []string
		posting   model.Posting
		wantMatch bool
	}{
		{
			name:      "include keyword matches",
			include:   []string{"software engineer", "gpu"},
			posting:   posting("Senior GPU Architect"),
			wantMatch: true,
		},
		{
			name:      "no include keyword matches",
			include:   []string{"devops", "sre"},
			posting:   posting("Frontend Engineer"),
			wantMatch: false,
		},
		{
			name:      "case insensitive matching",
			include:   []string{"CUDA"},
			posting:   posting("Cuda Kernel Engineer"),
			wantMatch: true,
		},
		{
			name:      "exclude wins over include",
			include:   []string{"engineer"},
			exclude:   []string{"intern"},
			posting:   posting("Software Engineer Intern"),
			wantMatch: false,
		},
		{
			name:      "exclude only",
			exclude:   []string{"manager"},
			posting:   posting("Deep Learning Engineer"),
			wantMatch: true,
		},
		{
			name:      "empty keyword lists pass all",
			include:   []string{},
			exclude:   []string{" ", ""},
			posting:   posting("Any Role"),
			wantMatch: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewTitleFilter(tt.include, tt.exclude)
			if got := f.Match(tt.posting); got != tt.wantMatch {
				t.Errorf("Match() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestTitleFilter_Empty(t *testing.T) {
	if !NewTitleFilter(nil, []string{"  "}).Empty() {
		t.Error("blank keywords should leave the filter empty")
	}
	if NewTitleFilter([]string{"gpu"}, nil).Empty() {
		t.Error("filter with a keyword is not empty")
	}
}

func TestIsToday(t *testing.T) {
	tests := map[string]bool{
		"Posted Today":        true,
		"Today":               true,
		"posted today":        true,
		"Posted Yesterday":    false,
		"Posted 2 Days Ago":   false,
		"Posted 30+ Days Ago": false,
		"":                    false,
	}
	for label, want := range tests {
		if got := IsToday(label); got != want {
			t.Errorf("IsToday(%q) = %v, want %v", label, got, want)
		}
	}
}
