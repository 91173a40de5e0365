package ports

import (
	"context"
	"time"

	"techwatch/internal/domain"
)

// EntrySource pulls raw entries from one upstream provider (RSS feed,
// academic search, ...). Implementations must honor ctx cancellation.
type EntrySource interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.RawEntry, error)
}

// ArticleStore persists collected articles for deduplication and history.
type ArticleStore interface {
	// InsertIfAbsent stores the article unless one with the same content
	// hash already exists. It reports whether a row was actually inserted.
	InsertIfAbsent(ctx context.Context, article domain.Article) (bool, error)
	ListNonRejected(ctx context.Context) ([]domain.Article, error)
	ListMissingCategory(ctx context.Context) ([]domain.Article, error)
	UpdateCategoryAndClass(ctx context.Context, id int64, category, class string) error
	MarkRejected(ctx context.Context, id int64) error
}

// ConfigStore loads and saves the mutable run configuration
// (selected sources, custom feeds, filters, schedule).
type ConfigStore interface {
	Load(ctx context.Context) (domain.RunConfig, error)
	Save(ctx context.Context, cfg domain.RunConfig) error
}

// Classifier assigns a fine-grained category to an article.
type Classifier interface {
	Classify(ctx context.Context, title, summary string) (string, error)
}

// ModelClient talks to the embedding/prediction model service.
type ModelClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Predict(ctx context.Context, vector []float32) (int, error)
	DecodeLabel(ctx context.Context, label int) (string, error)
}

// Notifier delivers a rendered digest to the configured recipients.
type Notifier interface {
	Send(ctx context.Context, recipients []string, subject, plain, html string) error
}

// Scheduler arms future pipeline runs.
type Scheduler interface {
	Rearm(frequency string) error
	Disarm()
	State() string
	NextRun() (time.Time, bool)
}
