package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yumyum-02/scraping/pkg/models"
)

// Metrics holds the Prometheus collectors for a crawl.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry      *prometheus.Registry
	PagesTotal    *prometheus.CounterVec
	ErrorsTotal   *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	WorklistSize  prometheus.Gauge
}

// NewMetrics registers the crawl collectors on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		PagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_pages_total",
			Help: "Crawl tasks by outcome",
		}, []string{"outcome"}), // fetched, failed, skipped_*
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_page_errors_total",
			Help: "Page failures by error category",
		}, []string{"category"}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scraper_fetch_duration_seconds",
			Help:    "Time spent fetching and decoding a page",
			Buckets: prometheus.DefBuckets,
		}),
		WorklistSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scraper_worklist_size",
			Help: "Entries waiting on the crawl worklist",
		}),
	}
}

// IncPage counts one page task by its outcome. No-op on a nil receiver.
func (m *Metrics) IncPage(outcome models.PageOutcome) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(outcome.String()).Inc()
}

// IncError counts one failed fetch under its CategorizeError category.
func (m *Metrics) IncError(category string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(category).Inc()
}

// ObserveFetch records how long a single page fetch took.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// SetWorklistSize reports the number of entries left on the worklist.
func (m *Metrics) SetWorklistSize(n int) {
	if m == nil {
		return
	}
	m.WorklistSize.Set(float64(n))
}
