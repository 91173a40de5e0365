package alerting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"techwatch/internal/domain"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestComputeScoresAndOrder(t *testing.T) {
	t.Parallel()

	now := day(t, "2026-08-29")
	articles := []domain.Article{
		{Title: "RAG pipelines with vector stores", Summary: "vector retrieval at scale", CollectedAt: now},
		{Title: "Unrelated release notes", Summary: "nothing to see"},
		{Title: "vector index benchmark", Summary: "benchmark only", CollectedAt: now.AddDate(0, 0, -10)},
	}
	trending := []string{"vector", "retrieval"}

	alerts := Compute(articles, trending, now)

	require.Len(t, alerts, 2)
	// two matches * 10 + 30 days of freshness
	require.Equal(t, 50, alerts[0].Score)
	require.Equal(t, "RAG pipelines with vector stores", alerts[0].Title)
	// one match * 10 + (30 - 10)
	require.Equal(t, 30, alerts[1].Score)
	require.Equal(t, "vector index benchmark", alerts[1].Title)
}

func TestComputeZeroMatchExcluded(t *testing.T) {
	t.Parallel()

	now := day(t, "2026-08-29")
	articles := []domain.Article{{Title: "Kafka news", Summary: "streams", CollectedAt: now}}

	require.Empty(t, Compute(articles, []string{"vector"}, now))
}

func TestComputeTopThree(t *testing.T) {
	t.Parallel()

	now := day(t, "2026-08-29")
	var articles []domain.Article
	for i := 0; i < 5; i++ {
		articles = append(articles, domain.Article{
			Title:       "vector update",
			CollectedAt: now.AddDate(0, 0, -i),
		})
	}

	alerts := Compute(articles, []string{"vector"}, now)

	require.Len(t, alerts, MaxAlerts)
	require.Equal(t, 40, alerts[0].Score)
	require.Equal(t, 39, alerts[1].Score)
	require.Equal(t, 38, alerts[2].Score)
}

func TestComputeStableOrderOnTies(t *testing.T) {
	t.Parallel()

	now := day(t, "2026-08-29")
	articles := []domain.Article{
		{Title: "vector first", CollectedAt: now},
		{Title: "vector second", CollectedAt: now},
	}

	alerts := Compute(articles, []string{"vector"}, now)

	require.Len(t, alerts, 2)
	require.Equal(t, "vector first", alerts[0].Title)
	require.Equal(t, "vector second", alerts[1].Title)
}

func TestComputeRecencyFallsBackToPublished(t *testing.T) {
	t.Parallel()

	now := day(t, "2026-08-29")
	articles := []domain.Article{
		{Title: "vector paper", Published: "2026-08-29 08:00:00"},
		{Title: "vector note", Published: "garbage date"},
	}

	alerts := Compute(articles, []string{"vector"}, now)

	require.Len(t, alerts, 2)
	require.Equal(t, 40, alerts[0].Score)
	require.Equal(t, "Aujourd'hui", alerts[0].RecencyLabel)
	require.Equal(t, 10, alerts[1].Score)
	require.Equal(t, "Récent", alerts[1].RecencyLabel)
}

func TestComputeOldArticleGetsNoRecency(t *testing.T) {
	t.Parallel()

	now := day(t, "2026-08-29")
	articles := []domain.Article{{Title: "vector archive", CollectedAt: now.AddDate(0, 0, -90)}}

	alerts := Compute(articles, []string{"vector"}, now)

	require.Len(t, alerts, 1)
	require.Equal(t, 10, alerts[0].Score)
	require.Equal(t, "Il y a 90 jours", alerts[0].RecencyLabel)
}

func TestComputeTruncatesCardSummary(t *testing.T) {
	t.Parallel()

	now := day(t, "2026-08-29")
	long := strings.Repeat("vector ", 60)
	articles := []domain.Article{{Title: "t", Summary: long, CollectedAt: now}}

	alerts := Compute(articles, []string{"vector"}, now)

	require.Len(t, alerts, 1)
	require.True(t, strings.HasSuffix(alerts[0].SummaryShort, "…"))
	require.LessOrEqual(t, len([]rune(alerts[0].SummaryShort)), 261)
}

func TestRenderEmail(t *testing.T) {
	t.Parallel()

	alerts := []Alert{{
		Title:        "Graph RAG <beta>",
		Source:       "arxiv",
		Published:    "2026-08-28",
		SummaryShort: "A short card summary",
		Link:         "https://example.org/a",
	}}

	subject, plain, htmlBody := RenderEmail(alerts)

	require.Equal(t, "Alerte veille : 1 alerte(s)", subject)
	require.Contains(t, plain, "- Graph RAG <beta> (arxiv) - 2026-08-28")
	require.Contains(t, plain, "Read more: https://example.org/a")
	require.Contains(t, plain, "Cordialement")
	require.Contains(t, htmlBody, "Graph RAG &lt;beta&gt;")
	require.Contains(t, htmlBody, `href="https://example.org/a"`)
	require.Contains(t, htmlBody, "1 alerte(s) de veille")
	require.NotContains(t, plain, "score")
}

func TestRenderEmailCapsLongSummaries(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 700)
	_, plain, _ := RenderEmail([]Alert{{Title: "t", Source: "s", Published: "p", SummaryShort: long}})

	require.Contains(t, plain, strings.Repeat("x", 600)+"...")
	require.NotContains(t, plain, strings.Repeat("x", 601))
}
