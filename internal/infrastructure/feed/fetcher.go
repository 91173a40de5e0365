// Package feed pulls raw entries from RSS and Atom sources.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"techwatch/internal/domain"
	"techwatch/internal/ports"
)

// Source fetches one configured feed.
type Source struct {
	src       domain.Source
	client    *http.Client
	userAgent string
}

var _ ports.EntrySource = (*Source)(nil)

// NewSource builds a fetcher for the given feed.
func NewSource(src domain.Source, timeout time.Duration, userAgent string) *Source {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Source{
		src:       src,
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Name returns the configured source name.
func (s *Source) Name() string { return s.src.Name }

// Fetch downloads and parses the feed into raw entries.
func (s *Source) Fetch(ctx context.Context) ([]domain.RawEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.src.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", s.src.Name, resp.Status)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.src.Name, err)
	}

	entries := make([]domain.RawEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entry := domain.RawEntry{
			Title:   item.Title,
			Summary: item.Description,
			Link:    item.Link,
			Source:  s.src.Name,
		}
		if entry.Summary == "" {
			entry.Summary = item.Content
		}
		switch {
		case item.PublishedParsed != nil:
			entry.PublishedAt = item.PublishedParsed
			entry.Published = item.PublishedParsed.Format("2006-01-02 15:04:05")
		case item.UpdatedParsed != nil:
			entry.PublishedAt = item.UpdatedParsed
			entry.Published = item.UpdatedParsed.Format("2006-01-02 15:04:05")
		case item.Published != "":
			entry.Published = item.Published
		default:
			entry.Published = item.Updated
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
