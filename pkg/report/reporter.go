package report

import (
	"fmt"
	"io"

	"github.com/yumyum-02/scraping/pkg/config"
	"github.com/yumyum-02/scraping/pkg/models"
)

// Reporter receives the user-facing events of a crawl.
// Diagnostics go through logrus; a Reporter only renders results.
type Reporter interface {
	// Start is called once before the seed is visited
	Start(seedURL string, maxDepth int) error
	// PageStarted is called after a task passes all checks and immediately before its fetch
	PageStarted(task models.CrawlTask) error
	// PageSummary is called with the metadata of a successfully parsed page
	PageSummary(task models.CrawlTask, summary models.PageSummary) error
	// PageFailed is called when a page could not be fetched, decoded or parsed
	PageFailed(task models.CrawlTask, err error) error
	// Finish is called once after the traversal ends, even if it was cancelled
	Finish(stats *models.CrawlStats) error
}

// New returns the reporter for an output format
func New(format string, w io.Writer) (Reporter, error) {
	switch format {
	case "", config.OutputFormatText:
		return NewTextReporter(w), nil
	case config.OutputFormatCSV:
		return NewCSVReporter(w), nil
	}
	return nil, fmt.Errorf("unknown output format '%s'", format)
}
