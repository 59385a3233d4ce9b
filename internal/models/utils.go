package models

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// idParams are the query parameters that carry an event identifier in
// booking/detail URLs, checked in order.
var idParams = []string{"IdPerf", "prodId"}

// ExtractEventID pulls the event identifier out of a booking or detail
// URL query string. Returns "" when the URL is malformed or carries no
// known identifier parameter.
func ExtractEventID(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return ""
	}

	for _, param := range idParams {
		if v := query.Get(param); v != "" {
			return v
		}
	}
	return ""
}

// StripBrackets removes a single pair of enclosing square brackets from
// a label, e.g. "[Live Concert]" -> "Live Concert". Internal whitespace
// is left untouched; surrounding whitespace is trimmed.
func StripBrackets(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// IsValidURL performs basic URL validation
func IsValidURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

// NewRunMetadata creates the metadata block for a run starting now
func NewRunMetadata(source string) RunMetadata {
	now := time.Now()
	return RunMetadata{
		RunID:            "run_" + uuid.New().String()[:8],
		ParsingTimestamp: float64(now.UnixNano()) / 1e9,
		ParsingDate:      now.Format("2006-01-02 15:04:05"),
		Source:           source,
	}
}
