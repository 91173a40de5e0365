// Package analyze builds trend reports over the collected corpus:
// source and category distributions plus emerging keywords extracted
// by term frequency.
package analyze

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"techwatch/internal/domain"
)

const (
	// EmergingKeywordCount is how many keywords the report carries.
	EmergingKeywordCount = 30
	// TrendingKeywordCount is the subset used for alert matching.
	TrendingKeywordCount = 8
	// topCategoryCount bounds the ranked category list.
	topCategoryCount = 17
)

// Report is the outcome of a corpus analysis.
type Report struct {
	TotalDocuments     int                 `json:"total_documents"`
	BySource           map[string]int      `json:"by_source"`
	ByCategory         map[string]int      `json:"by_category"`
	EmergingKeywords   []string            `json:"emerging_keywords"`
	EmergingByCategory map[string][]string `json:"emerging_by_category"`
	TopCategories      []string            `json:"top_categories"`
}

// TrendingKeywords returns the head of the emerging keyword list used
// for alert scoring.
func (r Report) TrendingKeywords() []string {
	if len(r.EmergingKeywords) <= TrendingKeywordCount {
		return r.EmergingKeywords
	}
	return r.EmergingKeywords[:TrendingKeywordCount]
}

// KeywordClassifier assigns a category to a single keyword.
// ports.Classifier satisfies it.
type KeywordClassifier interface {
	Classify(ctx context.Context, title, summary string) (string, error)
}

// Analyze computes the trend report for the given articles. An empty
// corpus yields a zero report, never an error.
func Analyze(articles []domain.Article) Report {
	report := Report{
		BySource:           map[string]int{},
		ByCategory:         map[string]int{},
		EmergingKeywords:   []string{},
		EmergingByCategory: map[string][]string{},
		TopCategories:      []string{},
	}
	if len(articles) == 0 {
		return report
	}

	corpus := make([]string, 0, len(articles))
	for _, art := range articles {
		cat := art.Category
		if cat == "" {
			cat = domain.DefaultCategory
		}
		src := art.Source
		if src == "" {
			src = "unknown"
		}
		report.ByCategory[cat]++
		report.BySource[src]++
		corpus = append(corpus, strings.TrimSpace(art.Title+" "+art.Summary))
	}

	report.TotalDocuments = len(articles)
	report.EmergingKeywords = ExtractKeywords(corpus, EmergingKeywordCount)
	report.TopCategories = rankCategories(report.ByCategory)
	return report
}

// GroupKeywords buckets keywords by the category the classifier
// assigns them. Classification failures fall back to the default
// category instead of aborting the report.
func GroupKeywords(ctx context.Context, classifier KeywordClassifier, keywords []string) map[string][]string {
	grouped := map[string][]string{}
	for _, kw := range keywords {
		cat := domain.DefaultCategory
		if classifier != nil {
			if c, err := classifier.Classify(ctx, kw, ""); err == nil && c != "" {
				cat = c
			}
		}
		grouped[cat] = append(grouped[cat], kw)
	}
	return grouped
}

var tokenRe = regexp.MustCompile(`[a-zA-Z][a-zA-Z\-]{2,}`)

// ExtractKeywords returns up to topN corpus terms ranked by total
// frequency, most frequent first; ties keep first-appearance order.
// Tokens are lowercased letter runs of three characters or more, with
// stop words removed.
func ExtractKeywords(corpus []string, topN int) []string {
	counts := map[string]int{}
	var terms []string
	for _, doc := range corpus {
		for _, tok := range tokenRe.FindAllString(doc, -1) {
			tok = strings.ToLower(tok)
			if stopwords[tok] {
				continue
			}
			if counts[tok] == 0 {
				terms = append(terms, tok)
			}
			counts[tok]++
		}
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return counts[terms[i]] > counts[terms[j]]
	})

	if len(terms) > topN {
		terms = terms[:topN]
	}
	return terms
}

func rankCategories(byCategory map[string]int) []string {
	cats := make([]string, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if byCategory[cats[i]] != byCategory[cats[j]] {
			return byCategory[cats[i]] > byCategory[cats[j]]
		}
		return cats[i] < cats[j]
	})
	if len(cats) > topCategoryCount {
		cats = cats[:topCategoryCount]
	}
	return cats
}
