package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/yumyum-02/scraping/pkg/models"
)

var banner = strings.Repeat("=", 50)

// TextReporter prints a human-readable block per page
type TextReporter struct {
	w io.Writer
}

// NewTextReporter creates a TextReporter writing to w
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

// Start implements the Reporter interface
func (r *TextReporter) Start(seedURL string, maxDepth int) error {
	_, err := fmt.Fprintf(r.w, "Starting crawl: %s (max depth: %d)\n", seedURL, maxDepth)
	return err
}

// PageStarted implements the Reporter interface
func (r *TextReporter) PageStarted(task models.CrawlTask) error {
	_, err := fmt.Fprintf(r.w, "\n%s\nCrawling: %s (depth: %d)\n%s\n", banner, task.URL, task.Depth, banner)
	return err
}

// PageSummary implements the Reporter interface
func (r *TextReporter) PageSummary(_ models.CrawlTask, summary models.PageSummary) error {
	var b strings.Builder
	if summary.HasTitle {
		fmt.Fprintf(&b, "Title: %s\n", summary.Title)
	}
	writeHeadings(&b, "h1", summary.H1)
	writeHeadings(&b, "h2", summary.H2)
	_, err := io.WriteString(r.w, b.String())
	return err
}

func writeHeadings(b *strings.Builder, tag string, texts []string) {
	if len(texts) == 0 {
		return
	}
	fmt.Fprintf(b, "%s tags (%d):\n", tag, len(texts))
	for i, text := range texts {
		fmt.Fprintf(b, "  %d. %s\n", i+1, text)
	}
}

// PageFailed implements the Reporter interface
func (r *TextReporter) PageFailed(task models.CrawlTask, err error) error {
	_, werr := fmt.Fprintf(r.w, "Error: %s - %v\n", task.URL, err)
	return werr
}

// Finish implements the Reporter interface
func (r *TextReporter) Finish(stats *models.CrawlStats) error {
	_, err := fmt.Fprintf(r.w, "\nCrawl complete: %d fetched, %d failed.\n",
		stats.Count(models.PageOutcomeFetched), stats.Count(models.PageOutcomeFailed))
	return err
}
