// Package scholar queries an academic search service for publications
// matching the configured query.
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"techwatch/internal/domain"
	"techwatch/internal/ports"
)

// SourceName labels entries collected from academic search.
const SourceName = "Google Scholar"

// Options bound the paged search.
type Options struct {
	BaseURL  string
	MaxPages int
	PageSize int
	Timeout  time.Duration
}

// Client iterates search result pages until exhaustion or the page
// cap. Academic search is slower than feed polling, so the client
// carries its own timeout.
type Client struct {
	opts   Options
	query  string
	client *http.Client
}

var _ ports.EntrySource = (*Client)(nil)

// New builds a search client for the given query.
func New(opts Options, query string) *Client {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 3
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 45 * time.Second
	}
	return &Client{
		opts:   opts,
		query:  query,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// Name returns the source label for collected entries.
func (c *Client) Name() string { return SourceName }

type searchResult struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Year     string `json:"year"`
	URL      string `json:"url"`
}

type searchPage struct {
	Results []searchResult `json:"results"`
}

// Fetch pages through the search results for the configured query.
// An empty query yields no entries.
func (c *Client) Fetch(ctx context.Context) ([]domain.RawEntry, error) {
	if c.query == "" {
		return nil, nil
	}

	var entries []domain.RawEntry
	for page := 1; page <= c.opts.MaxPages; page++ {
		results, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			break
		}
		for _, res := range results {
			published := res.Year
			if published == "" {
				published = "N/A"
			}
			entries = append(entries, domain.RawEntry{
				Title:     res.Title,
				Summary:   res.Abstract,
				Link:      res.URL,
				Published: published,
				Source:    SourceName,
			})
		}
		if len(results) < c.opts.PageSize {
			break
		}
	}
	return entries, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]searchResult, error) {
	q := url.Values{}
	q.Set("q", c.query)
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(c.opts.PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search page %d: unexpected status %s", page, resp.Status)
	}

	var parsed searchPage
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}
	return parsed.Results, nil
}
