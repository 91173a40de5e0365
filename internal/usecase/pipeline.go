// Package usecase orchestrates the watch pipeline: collect, filter,
// deduplicate, classify, persist and alert.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"techwatch/internal/alerting"
	"techwatch/internal/analyze"
	"techwatch/internal/domain"
	"techwatch/internal/normalize"
	"techwatch/internal/ports"
)

// SourceFactory resolves the run configuration into the entry sources
// to poll.
type SourceFactory func(cfg domain.RunConfig) []ports.EntrySource

// PipelineDeps wires all driven adapters into the pipeline.
type PipelineDeps struct {
	ConfigStore ports.ConfigStore
	Store       ports.ArticleStore
	Classifier  ports.Classifier
	Notifier    ports.Notifier
	Sources     SourceFactory
	Concurrency int
	Logger      *slog.Logger
}

// Pipeline implements the collection workflow. At most one run is in
// flight; a trigger during a run queues exactly one follow-up run.
type Pipeline struct {
	configStore ports.ConfigStore
	store       ports.ArticleStore
	classifier  ports.Classifier
	notifier    ports.Notifier
	sources     SourceFactory
	concurrency int
	log         *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	running bool
	pending bool
}

// RunStats summarizes one pipeline run.
type RunStats struct {
	Fetched    int
	Filtered   int
	Inserted   int
	Duplicates int
	FailedSrcs int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		configStore: deps.ConfigStore,
		store:       deps.Store,
		classifier:  deps.Classifier,
		notifier:    deps.Notifier,
		sources:     deps.Sources,
		concurrency: concurrency,
		log:         log.With("component", "pipeline"),
		now:         time.Now,
	}
}

// Trigger starts a run unless one is already in flight, in which case
// a single follow-up run is queued. It returns once all runs finish.
func (p *Pipeline) Trigger(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.pending = true
		p.mu.Unlock()
		p.log.Info("run in progress, queued follow-up")
		return nil
	}
	p.running = true
	p.mu.Unlock()

	var err error
	for {
		err = p.runOnce(ctx)

		p.mu.Lock()
		if p.pending {
			p.pending = false
			p.mu.Unlock()
			continue
		}
		p.running = false
		p.mu.Unlock()
		return err
	}
}

func (p *Pipeline) runOnce(ctx context.Context) error {
	cfg, err := p.configStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("load run config: %w", err)
	}

	if err := p.BackfillCategories(ctx); err != nil {
		p.log.Error("category backfill", "error", err)
	}

	stats, err := p.collect(ctx, cfg)
	if err != nil {
		return err
	}
	p.log.Info("collection finished",
		"fetched", stats.Fetched,
		"filtered_out", stats.Filtered,
		"inserted", stats.Inserted,
		"duplicates", stats.Duplicates,
		"failed_sources", stats.FailedSrcs)

	// alerting is best effort: a failure here never fails the run
	if err := p.sendAlerts(ctx, cfg); err != nil {
		p.log.Error("post-run alerting", "error", err)
	}
	return nil
}

type fetchResult struct {
	source  string
	entries []domain.RawEntry
	err     error
}

func (p *Pipeline) collect(ctx context.Context, cfg domain.RunConfig) (RunStats, error) {
	var stats RunStats

	srcs := p.sources(cfg)
	if len(srcs) == 0 {
		p.log.Warn("no sources selected")
		return stats, nil
	}

	results := make(chan fetchResult, len(srcs))
	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup
	for _, src := range srcs {
		wg.Add(1)
		go func(src ports.EntrySource) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			entries, err := src.Fetch(ctx)
			results <- fetchResult{source: src.Name(), entries: entries, err: err}
		}(src)
	}
	wg.Wait()
	close(results)

	keywords := normalizeKeywords(cfg.Keywords)
	dateRange := normalize.ParseDateRange(cfg.DateFrom, cfg.DateTo)
	collectedAt := p.now()

	for res := range results {
		if res.err != nil {
			stats.FailedSrcs++
			p.log.Error("source fetch failed", "source", res.source, "error", res.err)
			continue
		}
		stats.Fetched += len(res.entries)

		for _, entry := range res.entries {
			art, ok := p.normalizeEntry(entry, keywords, dateRange, collectedAt)
			if !ok {
				stats.Filtered++
				continue
			}

			art.Category = p.classify(ctx, art.Title, art.Summary)
			art.Class = domain.ClassFor(art.Category)

			inserted, err := p.store.InsertIfAbsent(ctx, art)
			if err != nil {
				return stats, fmt.Errorf("persist article from %s: %w", res.source, err)
			}
			if inserted {
				stats.Inserted++
			} else {
				stats.Duplicates++
			}
		}
	}
	return stats, nil
}

// normalizeEntry cleans one raw entry and applies the keyword and date
// filters. Entries without a title or published value are dropped.
func (p *Pipeline) normalizeEntry(entry domain.RawEntry, keywords []string, dateRange normalize.DateRange, collectedAt time.Time) (domain.Article, bool) {
	title := strings.TrimSpace(entry.Title)
	published := strings.TrimSpace(entry.Published)
	if title == "" || published == "" {
		return domain.Article{}, false
	}

	summary := normalize.CleanText(entry.Summary)
	if !normalize.MatchKeywords(title+" "+summary, keywords) {
		return domain.Article{}, false
	}

	var when time.Time
	known := false
	if entry.PublishedAt != nil {
		when, known = *entry.PublishedAt, true
	} else {
		when, known = normalize.ParseDate(published)
	}
	if !known {
		// free-form dates like "N/A" fall back to the fetch time
		when = collectedAt
	}
	if !dateRange.Contains(when, true) {
		return domain.Article{}, false
	}

	return domain.Article{
		Title:        title,
		Source:       entry.Source,
		Published:    published,
		Summary:      summary,
		SummaryShort: normalize.ShortSummary(entry.Summary),
		Link:         entry.Link,
		CollectedAt:  collectedAt,
		ContentHash:  domain.ContentHash(title, entry.Source, published),
	}, true
}

func (p *Pipeline) classify(ctx context.Context, title, summary string) string {
	if p.classifier == nil {
		return domain.DefaultCategory
	}
	category, err := p.classifier.Classify(ctx, title, summary)
	if err != nil || category == "" {
		if err != nil {
			p.log.Warn("classification failed, using default category", "error", err)
		}
		return domain.DefaultCategory
	}
	return category
}

// BackfillCategories assigns categories and classes to stored articles
// that never received one.
func (p *Pipeline) BackfillCategories(ctx context.Context) error {
	missing, err := p.store.ListMissingCategory(ctx)
	if err != nil {
		return fmt.Errorf("list uncategorized: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}

	p.log.Info("backfilling categories", "count", len(missing))
	for _, art := range missing {
		category := art.Category
		if category == "" {
			category = p.classify(ctx, art.Title, art.Summary)
		}
		if err := p.store.UpdateCategoryAndClass(ctx, art.ID, category, domain.ClassFor(category)); err != nil {
			return fmt.Errorf("update article %d: %w", art.ID, err)
		}
	}
	return nil
}

// Reject flags an article so it no longer feeds trends or alerts.
func (p *Pipeline) Reject(ctx context.Context, id int64) error {
	if err := p.store.MarkRejected(ctx, id); err != nil {
		return fmt.Errorf("reject article %d: %w", id, err)
	}
	return nil
}

// Report analyzes the stored corpus and returns the trend report.
func (p *Pipeline) Report(ctx context.Context) (analyze.Report, error) {
	articles, err := p.store.ListNonRejected(ctx)
	if err != nil {
		return analyze.Report{}, fmt.Errorf("load corpus: %w", err)
	}
	report := analyze.Analyze(articles)
	report.EmergingByCategory = analyze.GroupKeywords(ctx, p.classifier, report.EmergingKeywords)
	return report, nil
}

// Alerts scores the stored corpus against its trending keywords.
func (p *Pipeline) Alerts(ctx context.Context) ([]alerting.Alert, error) {
	articles, err := p.store.ListNonRejected(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	report := analyze.Analyze(articles)
	return alerting.Compute(articles, report.TrendingKeywords(), p.now()), nil
}

func (p *Pipeline) sendAlerts(ctx context.Context, cfg domain.RunConfig) error {
	if p.notifier == nil || len(cfg.Recipients) == 0 {
		return nil
	}
	alerts, err := p.Alerts(ctx)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		p.log.Info("no alerts to send")
		return nil
	}
	subject, plain, html := alerting.RenderEmail(alerts)
	return p.notifier.Send(ctx, cfg.Recipients, subject, plain, html)
}

func normalizeKeywords(raw []string) []string {
	var out []string
	for _, k := range raw {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
