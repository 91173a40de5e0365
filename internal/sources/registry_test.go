package sources

import (
	"testing"

	"techwatch/internal/domain"
)

func TestResolvePredefinedSelection(t *testing.T) {
	t.Parallel()

	cfg := domain.RunConfig{Sources: []string{"arxiv", "bogus", "huggingface", domain.ScholarSourceName}}
	got := Resolve(cfg)

	if len(got) != 2 {
		t.Fatalf("expected 2 sources, got %d: %+v", len(got), got)
	}
	if got[0].Name != "arxiv" || got[0].Kind != domain.KindPredefined {
		t.Fatalf("unexpected first source: %+v", got[0])
	}
	if got[1].Name != "huggingface" {
		t.Fatalf("unexpected second source: %+v", got[1])
	}
}

func TestResolveCustomLaterWins(t *testing.T) {
	t.Parallel()

	cfg := domain.RunConfig{
		Sources: []string{"nvidia"},
		CustomFeeds: []domain.CustomFeed{
			{Name: "team blog", URL: "https://a.example.org/rss"},
			{Name: "team blog", URL: "https://b.example.org/rss"},
		},
	}
	got := Resolve(cfg)

	if len(got) != 2 {
		t.Fatalf("expected 2 sources, got %d: %+v", len(got), got)
	}
	if got[1].URL != "https://b.example.org/rss" || got[1].Kind != domain.KindCustom {
		t.Fatalf("later registration should win: %+v", got[1])
	}
}

func TestResolveCustomOverridesPredefinedName(t *testing.T) {
	t.Parallel()

	cfg := domain.RunConfig{
		Sources:     []string{"langchain"},
		CustomFeeds: []domain.CustomFeed{{Name: "langchain", URL: "https://mirror.example.org/rss"}},
	}
	got := Resolve(cfg)

	if len(got) != 1 {
		t.Fatalf("expected 1 source, got %d", len(got))
	}
	if got[0].URL != "https://mirror.example.org/rss" || got[0].Kind != domain.KindCustom {
		t.Fatalf("custom feed should replace the predefined entry: %+v", got[0])
	}
}

func TestAddCustomFeedIsAdditive(t *testing.T) {
	t.Parallel()

	cfg := domain.RunConfig{}
	cfg = AddCustomFeed(cfg, "one", "https://one.example.org/rss")
	cfg = AddCustomFeed(cfg, "two", "https://two.example.org/rss")
	cfg = AddCustomFeed(cfg, "renamed", "https://one.example.org/rss")

	if len(cfg.CustomFeeds) != 2 {
		t.Fatalf("expected 2 feeds, got %+v", cfg.CustomFeeds)
	}
	if cfg.CustomFeeds[0].Name != "renamed" {
		t.Fatalf("same URL should update the name: %+v", cfg.CustomFeeds[0])
	}
}

func TestRemoveCustomFeed(t *testing.T) {
	t.Parallel()

	cfg := domain.RunConfig{CustomFeeds: []domain.CustomFeed{
		{Name: "one", URL: "https://one.example.org/rss"},
		{Name: "two", URL: "https://two.example.org/rss"},
	}}
	cfg = RemoveCustomFeed(cfg, "one")

	if len(cfg.CustomFeeds) != 1 || cfg.CustomFeeds[0].Name != "two" {
		t.Fatalf("unexpected feeds after removal: %+v", cfg.CustomFeeds)
	}
}

func TestScholarEnabled(t *testing.T) {
	t.Parallel()

	cfg := domain.RunConfig{Sources: []string{"arxiv", domain.ScholarSourceName}}
	if !cfg.ScholarEnabled() {
		t.Fatal("scholar should be enabled")
	}
	if (domain.RunConfig{Sources: []string{"arxiv"}}).ScholarEnabled() {
		t.Fatal("scholar should be disabled")
	}
}
