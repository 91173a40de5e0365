package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Article is the core entity carried through the pipeline and persisted.
// Published keeps the source-reported value as a string because some
// providers only expose a year or a free-form date.
type Article struct {
	ID           int64
	Title        string
	Source       string
	Published    string
	Summary      string
	SummaryShort string
	Link         string
	CollectedAt  time.Time
	Category     string
	Class        string
	ContentHash  string
	Rejected     bool
}

// RawEntry is a single unprocessed item as returned by a fetcher,
// before cleaning and filtering.
type RawEntry struct {
	Title       string
	Summary     string
	Link        string
	Published   string
	PublishedAt *time.Time
	Source      string
}

// SourceKind distinguishes how a source is fetched.
type SourceKind string

const (
	KindPredefined SourceKind = "predefined"
	KindCustom     SourceKind = "custom"
	KindScholar    SourceKind = "scholar"
)

// Source describes a single retrieval endpoint for a run.
type Source struct {
	Name string
	URL  string
	Kind SourceKind
}

// ContentHash derives the deduplication key. It is a pure function of
// (title, source, published): equal triples always hash equal.
func ContentHash(title, source, published string) string {
	raw := fmt.Sprintf("%s|%s|%s", title, source, published)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
