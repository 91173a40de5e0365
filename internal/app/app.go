// Package app wires configuration, adapters and use cases into a
// runnable application.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/lib/pq"

	"techwatch/internal/config"
	"techwatch/internal/domain"
	"techwatch/internal/infrastructure/feed"
	"techwatch/internal/infrastructure/mailer"
	"techwatch/internal/infrastructure/ml"
	"techwatch/internal/infrastructure/scheduler"
	"techwatch/internal/infrastructure/scholar"
	"techwatch/internal/infrastructure/storage"
	"techwatch/internal/infrastructure/telegram"
	"techwatch/internal/logging"
	"techwatch/internal/ports"
	"techwatch/internal/sources"
	"techwatch/internal/usecase"
)

// Application owns the wired pipeline and its scheduler.
type Application struct {
	cfg      config.Config
	log      *slog.Logger
	db       *sql.DB
	pipeline *usecase.Pipeline
	planner  *usecase.Planner
	driver   *scheduler.TimerScheduler
}

// New builds the application from static configuration.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.LogLevel)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := storage.NewPostgresRepository(db)
	if err := store.InitSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	configStore := config.NewFileStore(cfg.RunConfigPath)

	var classifier ports.Classifier
	if cfg.Model.BaseURL != "" {
		classifier = ml.NewClassifier(ml.NewClient(cfg.Model.BaseURL, cfg.Model.APIKey, cfg.Model.Timeout))
	} else {
		baseLogger.Warn("model service not configured, using fallback classifier")
		classifier = ml.FallbackClassifier{}
	}

	notifiers := []ports.Notifier{mailer.New(mailer.Options{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, baseLogger)}
	if cfg.Telegram.Enabled() {
		notifiers = append(notifiers, telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		ConfigStore: configStore,
		Store:       store,
		Classifier:  classifier,
		Notifier:    fanoutNotifier(notifiers),
		Sources:     sourceFactory(cfg),
		Concurrency: cfg.Fetch.Concurrency,
		Logger:      baseLogger,
	})

	app := &Application{
		cfg:      cfg,
		log:      baseLogger.With("component", "app"),
		db:       db,
		pipeline: pipeline,
	}
	app.driver = scheduler.New(func() {
		if err := pipeline.Trigger(context.Background()); err != nil {
			baseLogger.Error("scheduled run failed", "error", err)
		}
	}, baseLogger)
	app.planner = usecase.NewPlanner(app.driver, pipeline, configStore)
	return app, nil
}

// fanoutNotifier delivers the digest through every configured channel.
// A channel failure does not stop the others; the first error wins.
type fanoutNotifier []ports.Notifier

func (f fanoutNotifier) Send(ctx context.Context, recipients []string, subject, plain, html string) error {
	var firstErr error
	for _, n := range f {
		if err := n.Send(ctx, recipients, subject, plain, html); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// sourceFactory resolves the run configuration into concrete fetchers.
func sourceFactory(cfg config.Config) usecase.SourceFactory {
	return func(run domain.RunConfig) []ports.EntrySource {
		var out []ports.EntrySource
		for _, src := range sources.Resolve(run) {
			out = append(out, feed.NewSource(src, cfg.Fetch.Timeout, cfg.Fetch.UserAgent))
		}
		if run.ScholarEnabled() {
			query := run.ScholarQuery
			if query == "" {
				query = strings.Join(run.Keywords, " ")
			}
			out = append(out, scholar.New(scholar.Options{
				BaseURL:  cfg.Scholar.BaseURL,
				MaxPages: cfg.Scholar.MaxPages,
				PageSize: cfg.Scholar.PageSize,
				Timeout:  cfg.Scholar.Timeout,
			}, query))
		}
		return out
	}
}

// Planner exposes scheduling and manual triggering.
func (a *Application) Planner() *usecase.Planner { return a.planner }

// Run backfills stored articles, arms the scheduler from the saved
// frequency and blocks until the context is canceled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.pipeline.BackfillCategories(ctx); err != nil {
		a.log.Error("startup backfill", "error", err)
	}

	if err := a.planner.Reschedule(ctx); err != nil {
		return fmt.Errorf("arm scheduler: %w", err)
	}
	a.log.Info("scheduler ready", "state", a.driver.State())

	<-ctx.Done()
	a.planner.Stop()
	return nil
}

// Close releases held resources.
func (a *Application) Close() error {
	return a.db.Close()
}
