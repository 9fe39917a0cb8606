package models

// PageOutcome describes what happened to a single crawl task
type PageOutcome string

const (
	PageOutcomeUnset          PageOutcome = ""                // Zero value = unset/unknown
	PageOutcomeFetched        PageOutcome = "fetched"         // Page fetched and summarised
	PageOutcomeFailed         PageOutcome = "failed"          // Fetch, decode or parse failed
	PageOutcomeSkippedVisited PageOutcome = "skipped_visited" // URL already in the visited set
	PageOutcomeSkippedDepth   PageOutcome = "skipped_depth"   // Task depth at or beyond max depth
	PageOutcomeSkippedScope   PageOutcome = "skipped_scope"   // Host differs from the root host
)

// String implements fmt.Stringer for logging
func (o PageOutcome) String() string {
	if o == "" {
		return "unset"
	}
	return string(o)
}

// IsSkip reports whether the task ended without a network request
func (o PageOutcome) IsSkip() bool {
	switch o {
	case PageOutcomeSkippedVisited, PageOutcomeSkippedDepth, PageOutcomeSkippedScope:
		return true
	}
	return false
}

// PageType classifies a reported page the way the CSV report labels it
type PageType string

const (
	PageTypeMain    PageType = "main"    // The seed page
	PageTypeSubpage PageType = "subpage" // Any page discovered from the seed
	PageTypeError   PageType = "error"   // A page whose fetch failed
)

// PageTypeFor returns the page type for a successfully fetched page at the given depth
func PageTypeFor(depth int) PageType {
	if depth == 0 {
		return PageTypeMain
	}
	return PageTypeSubpage
}
