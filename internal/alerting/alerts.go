// Package alerting scores collected articles against trending
// keywords and renders the resulting alert digest.
package alerting

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"techwatch/internal/domain"
	"techwatch/internal/normalize"
)

const (
	// MaxAlerts is how many alerts a digest carries.
	MaxAlerts = 3
	// matchWeight converts keyword hits into score points.
	matchWeight = 10
	// recencyWindowDays is the span over which freshness still scores.
	recencyWindowDays = 30
)

// Alert is one scored article selected for the digest.
type Alert struct {
	Title        string
	Source       string
	Published    string
	Summary      string
	SummaryShort string
	Link         string
	RecencyLabel string
	Score        int
}

// Compute scores every article against the trending keywords and
// returns the top alerts, highest score first. Articles matching no
// keyword are excluded. Equal scores keep the input order.
func Compute(articles []domain.Article, trending []string, now time.Time) []Alert {
	var alerts []Alert
	for _, art := range articles {
		fullText := strings.ToLower(art.Title + " " + art.Summary)

		matches := 0
		for _, kw := range trending {
			kw = strings.ToLower(kw)
			if kw != "" && strings.Contains(fullText, kw) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}

		when, known := articleTime(art)
		recency := 0
		if known {
			days := int(now.Sub(when).Hours() / 24)
			if days < recencyWindowDays {
				recency = recencyWindowDays - days
			}
			if recency < 0 {
				recency = 0
			}
		}

		short := art.SummaryShort
		if short == "" {
			short = art.Summary
		}
		short = normalize.Truncate(short, normalize.ShortSummaryLimit)

		source := art.Source
		if source == "" {
			source = "Inconnu"
		}
		published := art.Published
		if published == "" {
			published = "Date inconnue"
		}

		alerts = append(alerts, Alert{
			Title:        art.Title,
			Source:       source,
			Published:    published,
			Summary:      art.Summary,
			SummaryShort: short,
			Link:         art.Link,
			RecencyLabel: recencyLabel(when, known, now),
			Score:        matches*matchWeight + recency,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Score > alerts[j].Score
	})
	if len(alerts) > MaxAlerts {
		alerts = alerts[:MaxAlerts]
	}
	return alerts
}

// articleTime resolves the timestamp used for recency: collection time
// when known, otherwise the published string.
func articleTime(art domain.Article) (time.Time, bool) {
	if !art.CollectedAt.IsZero() {
		return art.CollectedAt, true
	}
	return normalize.ParseDate(art.Published)
}

func recencyLabel(when time.Time, known bool, now time.Time) string {
	if !known {
		return "Récent"
	}
	days := int(now.Sub(when).Hours() / 24)
	if days < 1 {
		return "Aujourd'hui"
	}
	return "Il y a " + strconv.Itoa(days) + " jours"
}
