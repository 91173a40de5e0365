// Package normalize cleans raw feed entries into storable articles
// and applies the configured keyword and date filters.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ShortSummaryLimit is the maximum length of the card summary.
const ShortSummaryLimit = 260

var (
	readMoreRe = regexp.MustCompile(`(?i)Read more\s*»?`)
	thePostRe  = regexp.MustCompile(`(?i)The post .*? appeared first on .*`)
)

// CleanText strips markup and feed boilerplate from text. Images are
// dropped, remaining tags removed, entities decoded and whitespace
// collapsed to single spaces.
func CleanText(text string) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return ""
	}

	if strings.ContainsRune(t, '<') || strings.ContainsRune(t, '&') {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(t))
		if err == nil {
			doc.Find("img").Remove()
			t = doc.Text()
		}
	}

	t = readMoreRe.ReplaceAllString(t, " ")
	t = thePostRe.ReplaceAllString(t, " ")

	return strings.Join(strings.Fields(t), " ")
}

// ShortSummary cleans text and truncates it to at most ShortSummaryLimit
// characters, cutting at the last word boundary and appending an
// ellipsis when truncation happened.
func ShortSummary(text string) string {
	return Truncate(CleanText(text), ShortSummaryLimit)
}

// Truncate cuts s at the last word boundary within max characters and
// appends an ellipsis. Strings that already fit are returned unchanged.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}

// dateLayouts is the parse ladder for published timestamps, strictest
// first.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"2006",
}

// ParseDate resolves a published string to a time. The boolean reports
// whether any layout matched.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MatchKeywords reports whether text contains any of the keywords,
// case-insensitively. An empty keyword list matches everything.
func MatchKeywords(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	text = strings.ToLower(text)
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// ParseKeywords splits a comma-separated keyword string into trimmed,
// lowercased terms.
func ParseKeywords(raw string) []string {
	var out []string
	for _, k := range strings.Split(raw, ",") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// DateRange is an inclusive published-date filter. Zero bounds are
// open-ended.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange builds a range from "YYYY-MM-DD" bounds. Malformed
// bounds are treated as absent.
func ParseDateRange(from, to string) DateRange {
	var r DateRange
	if t, ok := ParseDate(from); ok {
		r.From = t
	}
	if t, ok := ParseDate(to); ok {
		r.To = t
	}
	return r
}

// Contains reports whether t falls inside the range, bounds included.
// known=false marks a missing timestamp, which a bounded range rejects;
// callers that can substitute a fallback time do so before calling.
func (r DateRange) Contains(t time.Time, known bool) bool {
	if r.From.IsZero() && r.To.IsZero() {
		return true
	}
	if !known {
		return false
	}
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}
