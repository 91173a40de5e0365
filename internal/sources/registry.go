// Package sources resolves the run configuration into the concrete
// list of feeds to poll.
package sources

import "techwatch/internal/domain"

// predefined maps the built-in source names to their feed URLs.
var predefined = map[string]string{
	"arxiv":                "https://export.arxiv.org/api/query?search_query=cat:cs.AI&sortBy=submittedDate&sortOrder=descending&max_results=500",
	"nvidia":               "https://developer.nvidia.com/blog/feed/",
	"huggingface":          "https://huggingface.co/blog/feed.xml",
	"microsoft_research":   "https://www.microsoft.com/en-us/research/feed/",
	"langchain":            "https://blog.langchain.dev/rss/",
	"towards_data_science": "https://towardsdatascience.com/feed",
	"mlops_community":      "https://mlops.community/feed/",
}

// PredefinedNames lists the built-in source names in a stable order.
func PredefinedNames() []string {
	return []string{
		"arxiv",
		"nvidia",
		"huggingface",
		"microsoft_research",
		"langchain",
		"towards_data_science",
		"mlops_community",
	}
}

// IsPredefined reports whether name is a built-in feed.
func IsPredefined(name string) bool {
	_, ok := predefined[name]
	return ok
}

// Resolve turns the run configuration into the active source list.
// Selected predefined names that are unknown are dropped silently.
// Custom feeds are appended after the predefined ones; when a custom
// feed reuses a name, the later registration wins.
func Resolve(cfg domain.RunConfig) []domain.Source {
	byName := map[string]int{}
	var out []domain.Source

	for _, name := range cfg.Sources {
		if name == domain.ScholarSourceName {
			continue
		}
		url, ok := predefined[name]
		if !ok {
			continue
		}
		if idx, seen := byName[name]; seen {
			out[idx] = domain.Source{Name: name, URL: url, Kind: domain.KindPredefined}
			continue
		}
		byName[name] = len(out)
		out = append(out, domain.Source{Name: name, URL: url, Kind: domain.KindPredefined})
	}

	for _, feed := range cfg.CustomFeeds {
		if feed.URL == "" {
			continue
		}
		name := feed.Name
		if name == "" {
			name = "Custom Source"
		}
		src := domain.Source{Name: name, URL: feed.URL, Kind: domain.KindCustom}
		if idx, seen := byName[name]; seen {
			out[idx] = src
			continue
		}
		byName[name] = len(out)
		out = append(out, src)
	}

	return out
}

// AddCustomFeed registers a custom feed in the run configuration.
// Registration is additive: an existing feed with the same URL is left
// in place (its name is updated), other feeds are never removed.
func AddCustomFeed(cfg domain.RunConfig, name, url string) domain.RunConfig {
	if url == "" {
		return cfg
	}
	if name == "" {
		name = "Custom Source"
	}
	for i, feed := range cfg.CustomFeeds {
		if feed.URL == url {
			cfg.CustomFeeds[i].Name = name
			return cfg
		}
	}
	cfg.CustomFeeds = append(cfg.CustomFeeds, domain.CustomFeed{Name: name, URL: url})
	return cfg
}

// RemoveCustomFeed drops the custom feed registered under name.
func RemoveCustomFeed(cfg domain.RunConfig, name string) domain.RunConfig {
	kept := cfg.CustomFeeds[:0]
	for _, feed := range cfg.CustomFeeds {
		if feed.Name != name {
			kept = append(kept, feed)
		}
	}
	cfg.CustomFeeds = kept
	return cfg
}
