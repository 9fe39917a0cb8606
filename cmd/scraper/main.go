package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/yumyum-02/scraping/pkg/config"
	"github.com/yumyum-02/scraping/pkg/crawler"
	"github.com/yumyum-02/scraping/pkg/fetch"
	"github.com/yumyum-02/scraping/pkg/metrics"
	"github.com/yumyum-02/scraping/pkg/parse"
	"github.com/yumyum-02/scraping/pkg/report"
	"github.com/yumyum-02/scraping/pkg/storage"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "crawl":
		runCrawl(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "list-sites":
		runListSites(os.Args[2:])
	case "version":
		fmt.Printf("scraper %s\n", version)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printUsageTo(os.Stdout)
}

// printUsageTo writes usage information to the provided writer.
func printUsageTo(w io.Writer) {
	fmt.Fprintln(w, `scraper - Same-site page title and heading crawler

Usage:
  scraper <command> [options]

Commands:
  crawl       Crawl a site and print titles and h1/h2 headings
  validate    Validate configuration file
  list-sites  List available site keys
  version     Show version info

Without -config, crawl uses the built-in site '`+config.DefaultSiteKey+`' (`+config.DefaultStartURL+`).
Run 'scraper <command> -h' for command-specific help.`)
}

// loadConfig loads and parses the config file
func loadConfig(path string) (*config.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg config.AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// loadConfigOrDefault loads path, or returns the built-in configuration when path is empty
func loadConfigOrDefault(path string) (*config.AppConfig, error) {
	if path == "" {
		return config.DefaultAppConfig(), nil
	}
	return loadConfig(path)
}

// crawlOptions holds the crawl subcommand flags
type crawlOptions struct {
	configFile  string
	siteKey     string
	seedURL     string // Overrides the site's start_url
	maxDepth    int    // Overrides the effective max depth when >= 0
	format      string // Overrides output_format when non-empty
	logLevel    string
	metricsAddr string // Prometheus listen address, disabled when empty
}

// runCrawl handles the crawl subcommand
func runCrawl(args []string) {
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)
	var opts crawlOptions
	fs.StringVar(&opts.configFile, "config", "", "Path to config file (built-in default site if empty)")
	fs.StringVar(&opts.siteKey, "site", "", "Site key from config (optional when only one site is configured)")
	fs.StringVar(&opts.seedURL, "url", "", "Seed URL, overrides the site's start_url")
	fs.IntVar(&opts.maxDepth, "depth", -1, "Max crawl depth, overrides config (-1 = use config)")
	fs.StringVar(&opts.format, "format", "", "Output format: text or csv (overrides config)")
	fs.StringVar(&opts.logLevel, "loglevel", "info", "Log level (debug, info, warn, error, fatal)")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Prometheus metrics address, e.g. localhost:9090 (disabled by default)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: scraper crawl [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  scraper crawl\n")
		fmt.Fprintf(os.Stderr, "  scraper crawl -url https://example.com/ -depth 3\n")
		fmt.Fprintf(os.Stderr, "  scraper crawl -config config.yaml -site company -format csv > pages.csv\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	os.Exit(executeCrawl(opts))
}

// executeCrawl sets up logging and signal handling, then runs the crawl
func executeCrawl(opts crawlOptions) int {
	log := setupLogger(opts.logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Channel to listen for OS signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			log.Warnf("Received signal: %v. Initiating graceful shutdown...", sig)
			cancel()
		case <-ctx.Done():
			return
		}

		select {
		case sig := <-sigChan:
			log.Warnf("Received second signal: %v. Forcing exit.", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			log.Warn("Graceful shutdown period exceeded after signal. Forcing exit.")
			os.Exit(1)
		}
	}()

	return doCrawl(ctx, opts, os.Stdout, log)
}

// doCrawl loads configuration, builds the crawler components and runs one crawl.
// Returns exit code (0 = completed or cancelled, 1 = error or global timeout).
func doCrawl(ctx context.Context, opts crawlOptions, stdout io.Writer, log *logrus.Logger) int {
	if opts.configFile != "" {
		log.Infof("Loading configuration from %s", opts.configFile)
	} else {
		log.Info("No config file given, using built-in configuration")
	}
	appCfg, err := loadConfigOrDefault(opts.configFile)
	if err != nil {
		log.Errorf("Config error: %v", err)
		return 1
	}
	appWarnings, _ := appCfg.Validate()
	for _, w := range appWarnings {
		log.Warn(w)
	}
	if opts.format != "" {
		appCfg.OutputFormat = opts.format
	}
	logAppConfig(appCfg, log)

	siteKey, siteCfg, err := selectSite(appCfg, opts.siteKey, opts.seedURL)
	if err != nil {
		log.Error(err)
		return 1
	}
	if opts.seedURL != "" {
		siteCfg.StartURL = opts.seedURL
	}
	siteWarnings, err := siteCfg.Validate()
	if err != nil {
		log.Errorf("Site '%s' configuration invalid: %v", siteKey, err)
		return 1
	}
	for _, w := range siteWarnings {
		log.Warnf("[%s] %s", siteKey, w)
	}

	resolved := config.NewResolvedSiteConfig(siteCfg, appCfg)
	if opts.maxDepth >= 0 {
		resolved.MaxDepth = opts.maxDepth
	}
	log.Infof("Site Config for '%s': StartURL: %s, MaxDepth: %d, PageDelay: %v, UserAgent: '%s'",
		siteKey, resolved.StartURL, resolved.MaxDepth, resolved.PageDelay, resolved.UserAgent)

	reporter, err := report.New(appCfg.OutputFormat, stdout)
	if err != nil {
		log.Errorf("Output error: %v", err)
		return 1
	}

	crawlCtx := ctx
	if appCfg.GlobalCrawlTimeout > 0 {
		log.Infof("Setting global crawl timeout: %v", appCfg.GlobalCrawlTimeout)
		var cancel context.CancelFunc
		crawlCtx, cancel = context.WithTimeout(ctx, appCfg.GlobalCrawlTimeout)
		defer cancel()
	} else {
		log.Info("No global crawl timeout set.")
	}

	// --- Components ---
	logEntry := log.WithField("component", "crawl")
	httpClient := fetch.NewClient(appCfg.HTTPClientSettings, logEntry)
	fetcher := fetch.NewFetcher(httpClient, resolved.UserAgent, appCfg.MaxPageSizeBytes, logEntry)
	throttle := fetch.NewThrottle(resolved.PageDelay, logEntry)
	newVisited := func() (storage.VisitedSet, error) {
		return storage.NewVisitedSet(appCfg.VisitedBackend, logEntry)
	}
	var crawlMetrics *metrics.Metrics
	if opts.metricsAddr != "" {
		crawlMetrics = metrics.NewMetrics()
		go metrics.Serve(crawlCtx, opts.metricsAddr, crawlMetrics, log.WithField("component", "metrics"))
	}
	crawlerInstance := crawler.NewCrawlerWithOptions(siteKey, resolved, fetcher, throttle, reporter, newVisited, logEntry,
		&crawler.CrawlerOptions{Metrics: crawlMetrics})

	_, err = crawlerInstance.Crawl(crawlCtx, resolved.StartURL)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Crawl cancelled gracefully.")
			return 0
		} else if errors.Is(err, context.DeadlineExceeded) {
			log.Error("Crawl timed out (global timeout).")
			return 1
		}
		log.Errorf("Crawl finished with error: %v", err)
		return 1
	}

	log.Info("Crawl completed successfully.")
	return 0
}

// selectSite picks the site to crawl: the named key, the only configured site,
// or the built-in default site. A seed URL with no configured sites yields an ad-hoc site.
func selectSite(appCfg *config.AppConfig, siteKey, seedURL string) (string, config.SiteConfig, error) {
	if siteKey != "" {
		siteCfg, ok := appCfg.Sites[siteKey]
		if !ok {
			return "", config.SiteConfig{}, fmt.Errorf("site key '%s' not found in config", siteKey)
		}
		return siteKey, siteCfg, nil
	}

	switch len(appCfg.Sites) {
	case 0:
		if seedURL != "" {
			return config.DefaultSiteKey, config.SiteConfig{StartURL: seedURL}, nil
		}
		return "", config.SiteConfig{}, errors.New("no sites configured; pass -url or add a site to the config")
	case 1:
		for key, siteCfg := range appCfg.Sites {
			return key, siteCfg, nil
		}
	}
	if siteCfg, ok := appCfg.Sites[config.DefaultSiteKey]; ok {
		return config.DefaultSiteKey, siteCfg, nil
	}
	return "", config.SiteConfig{}, fmt.Errorf("%d sites configured; choose one with -site", len(appCfg.Sites))
}

// runValidate handles the validate subcommand
func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")
	siteKey := fs.String("site", "", "Site key to validate (optional, validates all if empty)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: scraper validate [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	os.Exit(doValidate(*configFile, *siteKey, os.Stdout, os.Stderr))
}

// doValidate performs validation and writes output to provided writers.
// Returns exit code (0 = success, 1 = error).
func doValidate(configPath, siteKey string, stdout, stderr io.Writer) int {
	appCfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	warnings, _ := appCfg.Validate()
	for _, w := range warnings {
		fmt.Fprintf(stdout, "WARN: %s\n", w)
	}

	if siteKey != "" {
		siteCfg, ok := appCfg.Sites[siteKey]
		if !ok {
			fmt.Fprintf(stderr, "Error: site '%s' not found in config\n", siteKey)
			return 1
		}
		siteWarnings, err := siteCfg.Validate()
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: [%s] %v\n", siteKey, err)
			return 1
		}
		for _, w := range siteWarnings {
			fmt.Fprintf(stdout, "WARN: [%s] %s\n", siteKey, w)
		}
		fmt.Fprintf(stdout, "OK: Site '%s' configuration is valid\n", siteKey)
	} else {
		hasError := false
		for _, key := range sortedSiteKeys(appCfg) {
			siteCfg := appCfg.Sites[key]
			siteWarnings, err := siteCfg.Validate()
			if err != nil {
				fmt.Fprintf(stderr, "ERROR: [%s] %v\n", key, err)
				hasError = true
				continue
			}
			for _, w := range siteWarnings {
				fmt.Fprintf(stdout, "WARN: [%s] %s\n", key, w)
			}
			fmt.Fprintf(stdout, "OK: [%s]\n", key)
		}
		if hasError {
			return 1
		}
	}

	fmt.Fprintln(stdout, "\nConfiguration valid.")
	return 0
}

// runListSites handles the list-sites subcommand
func runListSites(args []string) {
	fs := flag.NewFlagSet("list-sites", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: scraper list-sites [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	os.Exit(doListSites(*configFile, os.Stdout, os.Stderr))
}

// doListSites lists configured sites with their effective settings
func doListSites(configPath string, stdout, stderr io.Writer) int {
	appCfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Sites in %s:\n\n", configPath)
	for _, key := range sortedSiteKeys(appCfg) {
		site := appCfg.Sites[key]
		fmt.Fprintf(stdout, "  %s\n", key)
		fmt.Fprintf(stdout, "    Start URL: %s\n", site.StartURL)
		if host, err := parse.Host(site.StartURL); err == nil && host != "" {
			fmt.Fprintf(stdout, "    Host: %s\n", host)
		}
		fmt.Fprintf(stdout, "    Max Depth: %d\n", config.GetEffectiveMaxDepth(site, appCfg))
		fmt.Fprintf(stdout, "    Page Delay: %v\n", config.GetEffectivePageDelay(site, appCfg))
		fmt.Fprintln(stdout)
	}
	return 0
}

func sortedSiteKeys(appCfg *config.AppConfig) []string {
	keys := make([]string, 0, len(appCfg.Sites))
	for k := range appCfg.Sites {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func setupLogger(logLevelStr string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)

	level, err := logrus.ParseLevel(logLevelStr)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", logLevelStr, err)
	} else {
		log.SetLevel(level)
		log.Infof("Setting log level to: %s", level.String())
	}

	return log
}

func logAppConfig(appCfg *config.AppConfig, log *logrus.Logger) {
	log.Infof("Global Config: DefaultMaxDepth:%d, DefaultPageDelay:%v, UserAgent:'%s'",
		appCfg.DefaultMaxDepth, appCfg.DefaultPageDelay, appCfg.DefaultUserAgent)
	log.Infof("Global Config: VisitedBackend:%s, OutputFormat:%s, MaxPageSize:%d bytes, GlobalCrawlTimeout:%v",
		appCfg.VisitedBackend, appCfg.OutputFormat, appCfg.MaxPageSizeBytes, appCfg.GlobalCrawlTimeout)
	log.Infof("Global Config HTTP Client: Timeout:%v, MaxIdle:%d, MaxIdlePerHost:%d, IdleTimeout:%v, TLSTimeout:%v, DialerTimeout:%v, MaxRedirects:%d",
		appCfg.HTTPClientSettings.Timeout, appCfg.HTTPClientSettings.MaxIdleConns, appCfg.HTTPClientSettings.MaxIdleConnsPerHost,
		appCfg.HTTPClientSettings.IdleConnTimeout, appCfg.HTTPClientSettings.TLSHandshakeTimeout, appCfg.HTTPClientSettings.DialerTimeout,
		appCfg.HTTPClientSettings.MaxRedirects)
}
