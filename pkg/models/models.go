package models

import "time"

// CrawlTask represents a URL and the depth at which it was discovered
type CrawlTask struct {
	URL   string
	Depth int
}

// PageSummary holds the metadata extracted from a single page
// It is reported once and then discarded
type PageSummary struct {
	Title    string   // Trimmed text of the first <title> element
	HasTitle bool     // False when the page has no <title> element at all
	H1       []string // Trimmed <h1> texts in document order
	H2       []string // Trimmed <h2> texts in document order
}

// CrawlStats summarises one crawl invocation
type CrawlStats struct {
	CrawlID   string
	SeedURL   string
	RootHost  string
	MaxDepth  int
	StartTime time.Time
	EndTime   time.Time
	Outcomes  map[PageOutcome]int
}

// NewCrawlStats returns stats with the outcome counters initialised
func NewCrawlStats(crawlID, seedURL, rootHost string, maxDepth int) *CrawlStats {
	return &CrawlStats{
		CrawlID:   crawlID,
		SeedURL:   seedURL,
		RootHost:  rootHost,
		MaxDepth:  maxDepth,
		StartTime: time.Now(),
		Outcomes:  make(map[PageOutcome]int),
	}
}

// Record increments the counter for the given outcome
func (s *CrawlStats) Record(outcome PageOutcome) {
	s.Outcomes[outcome]++
}

// Count returns how many tasks ended with the given outcome
func (s *CrawlStats) Count(outcome PageOutcome) int {
	return s.Outcomes[outcome]
}

// Duration returns the elapsed crawl time (up to now if the crawl is still running)
func (s *CrawlStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}
