// Package jobid derives stable job identifiers from listing URLs.
package jobid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/amishk599/jobwatch/internal/model"
)

// DefaultPattern matches Workday job requisition references such as JR2005814.
const DefaultPattern = `JR\d+`

var defaultExtractor = MustNewExtractor(DefaultPattern)

// Extractor turns a listing URL into a JobID using a requisition token pattern.
type Extractor struct {
	token *regexp.Regexp
}

// NewExtractor compiles pattern as the requisition token rule. The pattern
// should describe an alphabetic prefix followed by digits.
func NewExtractor(pattern string) (*Extractor, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile job id pattern %q: %w", pattern, err)
	}
	return &Extractor{token: re}, nil
}

// MustNewExtractor is like NewExtractor but panics on an invalid pattern.
func MustNewExtractor(pattern string) *Extractor {
	e, err := NewExtractor(pattern)
	if err != nil {
		panic(err)
	}
	return e
}

// Extract returns the first requisition token found in url. Trailing
// duplicate markers ("-1") and query strings never reach the token.
// When no token is present it falls back to the segment after the last "_",
// cut at "?" and then at "-".
func (e *Extractor) Extract(url string) model.JobID {
	if tok := e.token.FindString(url); tok != "" {
		return model.JobID(tok)
	}
	return fallback(url)
}

func fallback(url string) model.JobID {
	base := url
	if i := strings.LastIndex(base, "_"); i >= 0 {
		base = base[i+1:]
	}
	base, _, _ = strings.Cut(base, "?")
	base, _, _ = strings.Cut(base, "-")
	return model.JobID(base)
}

// Extract uses DefaultPattern.
func Extract(url string) model.JobID {
	return defaultExtractor.Extract(url)
}
