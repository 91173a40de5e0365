package domain

// Frequency values accepted by the scheduler.
const (
	FreqOnce    = "once"
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
)

// ScholarSourceName selects the academic search provider in addition
// to the predefined feeds.
const ScholarSourceName = "google_scholar"

// CustomFeed is a user-registered RSS source.
type CustomFeed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// RunConfig is the mutable pipeline configuration: which sources to
// poll, how to filter the results and when to run.
type RunConfig struct {
	Sources      []string     `yaml:"sources"`
	CustomFeeds  []CustomFeed `yaml:"custom_feeds"`
	ScholarQuery string       `yaml:"scholar_query"`
	Keywords     []string     `yaml:"keywords"`
	DateFrom     string       `yaml:"date_from"`
	DateTo       string       `yaml:"date_to"`
	Frequency    string       `yaml:"frequency"`
	Recipients   []string     `yaml:"recipients"`
}

// ScholarEnabled reports whether the academic search source is selected.
func (c RunConfig) ScholarEnabled() bool {
	for _, s := range c.Sources {
		if s == ScholarSourceName {
			return true
		}
	}
	return false
}
