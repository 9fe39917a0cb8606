package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/yumyum-02/scraping/pkg/models"
)

var csvHeader = []string{"url", "title", "page_type"}

// CSVReporter writes one row per visited page: url, title and page type.
// Failed pages get page type "error" and "Error: <message>" as their title.
type CSVReporter struct {
	w *csv.Writer
}

// NewCSVReporter creates a CSVReporter writing to w
func NewCSVReporter(w io.Writer) *CSVReporter {
	return &CSVReporter{w: csv.NewWriter(w)}
}

func (r *CSVReporter) writeRow(record []string) error {
	if err := r.w.Write(record); err != nil {
		return err
	}
	r.w.Flush()
	return r.w.Error()
}

// Start implements the Reporter interface
func (r *CSVReporter) Start(string, int) error {
	return r.writeRow(csvHeader)
}

// PageStarted implements the Reporter interface
func (r *CSVReporter) PageStarted(models.CrawlTask) error {
	return nil
}

// PageSummary implements the Reporter interface
func (r *CSVReporter) PageSummary(task models.CrawlTask, summary models.PageSummary) error {
	return r.writeRow([]string{task.URL, summary.Title, string(models.PageTypeFor(task.Depth))})
}

// PageFailed implements the Reporter interface
func (r *CSVReporter) PageFailed(task models.CrawlTask, err error) error {
	return r.writeRow([]string{task.URL, fmt.Sprintf("Error: %v", err), string(models.PageTypeError)})
}

// Finish implements the Reporter interface
func (r *CSVReporter) Finish(*models.CrawlStats) error {
	r.w.Flush()
	return r.w.Error()
}
