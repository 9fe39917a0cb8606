package crawler

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yumyum-02/scraping/pkg/config"
	"github.com/yumyum-02/scraping/pkg/fetch"
	"github.com/yumyum-02/scraping/pkg/metrics"
	"github.com/yumyum-02/scraping/pkg/models"
	"github.com/yumyum-02/scraping/pkg/parse"
	"github.com/yumyum-02/scraping/pkg/process"
	"github.com/yumyum-02/scraping/pkg/queue"
	"github.com/yumyum-02/scraping/pkg/report"
	"github.com/yumyum-02/scraping/pkg/storage"
	"github.com/yumyum-02/scraping/pkg/utils"
)

// VisitedSetFactory creates the empty visited set used by a single Crawl call
type VisitedSetFactory func() (storage.VisitedSet, error)

// Pauser applies the fixed delay that follows each processed page subtree.
// *fetch.Throttle is the production implementation.
type Pauser interface {
	Pause(ctx context.Context) error
	Delay() time.Duration
}

// Crawler visits a seed page and the same-host pages reachable from it within the configured depth,
// reporting the title and headings of every page it fetches. Each URL is fetched at most once per Crawl.
// A Crawler is not safe for concurrent Crawl calls.
type Crawler struct {
	log      *logrus.Entry // Logger contextualized with site_key
	siteKey  string
	resolved *config.ResolvedSiteConfig

	fetcher    fetch.PageFetcher
	throttle   Pauser
	reporter   report.Reporter
	newVisited VisitedSetFactory
	metrics    *metrics.Metrics // nil when metrics are disabled
}

// CrawlerOptions contains optional parameters for NewCrawlerWithOptions
type CrawlerOptions struct {
	// Metrics receives per-page counters and fetch timings; nil disables recording
	Metrics *metrics.Metrics
}

// crawlRun holds the state of one Crawl invocation
type crawlRun struct {
	log      *logrus.Entry // c.log plus crawl_id
	rootHost string
	visited  storage.VisitedSet
	work     *queue.Worklist
	stats    *models.CrawlStats
}

// NewCrawler creates a new Crawler for one configured site
func NewCrawler(
	siteKey string,
	resolved *config.ResolvedSiteConfig,
	fetcher fetch.PageFetcher,
	throttle Pauser,
	reporter report.Reporter,
	newVisited VisitedSetFactory,
	baseLogger *logrus.Entry,
) *Crawler {
	return NewCrawlerWithOptions(siteKey, resolved, fetcher, throttle, reporter, newVisited, baseLogger, nil)
}

// NewCrawlerWithOptions creates a new Crawler with optional configuration
func NewCrawlerWithOptions(
	siteKey string,
	resolved *config.ResolvedSiteConfig,
	fetcher fetch.PageFetcher,
	throttle Pauser,
	reporter report.Reporter,
	newVisited VisitedSetFactory,
	baseLogger *logrus.Entry,
	opts *CrawlerOptions,
) *Crawler {
	c := &Crawler{
		log:        baseLogger.WithField("site_key", siteKey),
		siteKey:    siteKey,
		resolved:   resolved,
		fetcher:    fetcher,
		throttle:   throttle,
		reporter:   reporter,
		newVisited: newVisited,
	}
	if opts != nil {
		c.metrics = opts.Metrics
	}
	return c
}

// Crawl traverses the site starting at seed and blocks until the traversal is exhausted or ctx is done.
// The seed's host[:port] becomes the root host for the whole run; pages on any other host are never fetched.
// Page failures are reported and contained; the returned error is non-nil only when the seed is
// unusable, the visited set cannot be created, or ctx was cancelled (ctx.Err()).
func (c *Crawler) Crawl(ctx context.Context, seed string) (*models.CrawlStats, error) {
	seedURL, err := parse.ParseAbsolute(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}

	visited, err := c.newVisited()
	if err != nil {
		return nil, fmt.Errorf("creating visited set: %w", err)
	}
	defer func() {
		if errClose := visited.Close(); errClose != nil {
			c.log.Warnf("Failed to close visited set: %v", errClose)
		}
	}()

	crawlID := uuid.NewString()
	run := &crawlRun{
		log:      c.log.WithField("crawl_id", crawlID),
		rootHost: seedURL.Host,
		visited:  visited,
		stats:    models.NewCrawlStats(crawlID, seed, seedURL.Host, c.resolved.MaxDepth),
	}
	run.work = queue.NewWorklist(run.log.WithField("component", "worklist"))

	run.log.WithFields(logrus.Fields{
		"seed":       seed,
		"root_host":  run.rootHost,
		"max_depth":  c.resolved.MaxDepth,
		"page_delay": c.throttle.Delay(),
	}).Info("Crawl starting")
	if err := c.reporter.Start(seed, c.resolved.MaxDepth); err != nil {
		run.log.Warnf("Reporter failed at start: %v", err)
	}

	run.work.PushVisit(models.CrawlTask{URL: seed, Depth: 0})
	for ctx.Err() == nil {
		entry, ok := run.work.Pop()
		if !ok {
			break
		}
		c.metrics.SetWorklistSize(run.work.Len())
		switch entry.Kind {
		case queue.EntryPause:
			if err := c.throttle.Pause(ctx); err != nil {
				run.log.WithField("url", entry.Task.URL).Debugf("Pause interrupted: %v", err)
			}
		case queue.EntryVisit:
			outcome := c.visit(ctx, run, entry.Task)
			if outcome != models.PageOutcomeUnset {
				run.stats.Record(outcome)
				c.metrics.IncPage(outcome)
			}
		}
	}
	run.stats.EndTime = time.Now()

	if err := c.reporter.Finish(run.stats); err != nil {
		run.log.Warnf("Reporter failed at finish: %v", err)
	}
	c.logSummary(run)

	return run.stats, ctx.Err()
}

// visit runs the checks, fetch and extraction for a single task.
// On success the page's pause marker is pushed before its children so that it is popped only after
// the whole subtree has been processed. Failed pages push nothing.
// Returns PageOutcomeUnset when the fetch was abandoned because ctx was cancelled.
func (c *Crawler) visit(ctx context.Context, run *crawlRun, task models.CrawlTask) models.PageOutcome {
	taskLog := run.log.WithFields(logrus.Fields{"url": task.URL, "depth": task.Depth})
	maxDepth := c.resolved.MaxDepth

	if task.Depth >= maxDepth {
		taskLog.Debugf("Skipping: %v", fmt.Errorf("%w: depth %d, max %d", utils.ErrMaxDepthExceeded, task.Depth, maxDepth))
		return models.PageOutcomeSkippedDepth
	}

	taskURL, err := url.Parse(task.URL)
	if err != nil || taskURL.Host != run.rootHost {
		taskLog.Debugf("Skipping: %v", fmt.Errorf("%w: host outside '%s'", utils.ErrScopeViolation, run.rootHost))
		return models.PageOutcomeSkippedScope
	}

	added, err := run.visited.MarkVisited(task.URL)
	if err != nil {
		c.pageFailed(task, err, taskLog)
		return models.PageOutcomeFailed
	}
	if !added {
		taskLog.Debugf("Skipping: %v", utils.ErrAlreadyVisited)
		return models.PageOutcomeSkippedVisited
	}

	if err := c.reporter.PageStarted(task); err != nil {
		taskLog.Warnf("Reporter failed: %v", err)
	}

	startTime := time.Now()
	page, err := c.fetcher.Fetch(ctx, task.URL)
	c.metrics.ObserveFetch(time.Since(startTime))
	if err != nil {
		if ctx.Err() != nil {
			taskLog.Debugf("Fetch abandoned: %v", ctx.Err())
			return models.PageOutcomeUnset
		}
		c.pageFailed(task, err, taskLog)
		return models.PageOutcomeFailed
	}

	doc, err := process.ParseDocument(page.Body, task.URL)
	if err != nil {
		c.pageFailed(task, err, taskLog)
		return models.PageOutcomeFailed
	}

	summary := process.ExtractSummary(doc)
	if err := c.reporter.PageSummary(task, summary); err != nil {
		taskLog.Warnf("Reporter failed: %v", err)
	}

	run.work.PushPause(task)
	if task.Depth < maxDepth-1 {
		links := process.ExtractLinks(doc, taskURL, run.rootHost, taskLog)
		children := make([]models.CrawlTask, 0, len(links))
		for _, link := range links {
			children = append(children, models.CrawlTask{URL: link, Depth: task.Depth + 1})
		}
		run.work.PushChildren(children)
	}

	doneLog := taskLog
	if page.FinalURL != nil && page.FinalURL.String() != task.URL {
		doneLog = doneLog.WithField("final_url", page.FinalURL.String())
	}
	doneLog.WithFields(logrus.Fields{
		"duration":    time.Since(startTime).String(),
		"status_code": page.StatusCode,
		"encoding":    page.Encoding,
		"h1":          len(summary.H1),
		"h2":          len(summary.H2),
	}).Info("Page processed")
	return models.PageOutcomeFetched
}

func (c *Crawler) pageFailed(task models.CrawlTask, err error, taskLog *logrus.Entry) {
	category := utils.CategorizeError(err)
	c.metrics.IncError(category)
	taskLog.WithField("category", category).Warnf("Page failed: %v", err)
	if errReport := c.reporter.PageFailed(task, err); errReport != nil {
		taskLog.Warnf("Reporter failed: %v", errReport)
	}
}

func (c *Crawler) logSummary(run *crawlRun) {
	visitedCount, err := run.visited.Count()
	if err != nil {
		run.log.Warnf("Could not get final visited count: %v", err)
		visitedCount = -1
	}
	stats := run.stats
	skipped := 0
	for outcome, n := range stats.Outcomes {
		if outcome.IsSkip() {
			skipped += n
		}
	}
	summaryLog := run.log.WithField("root_host", run.rootHost)
	summaryLog.Info("==================================================")
	summaryLog.Info("CRAWL FINISHED")
	summaryLog.Infof("Duration:  %v", stats.Duration())
	summaryLog.Infof("Visited: %d, Fetched: %d, Failed: %d, Skipped: %d (visited/depth/scope: %d/%d/%d)",
		visitedCount,
		stats.Count(models.PageOutcomeFetched),
		stats.Count(models.PageOutcomeFailed),
		skipped,
		stats.Count(models.PageOutcomeSkippedVisited),
		stats.Count(models.PageOutcomeSkippedDepth),
		stats.Count(models.PageOutcomeSkippedScope))
	summaryLog.Info("==================================================")
}
