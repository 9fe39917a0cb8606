package config

import "time"

const (
	// DefaultSiteKey names the built-in site used when no config file is given
	DefaultSiteKey = "default"
	// DefaultStartURL is the seed crawled by the built-in site
	DefaultStartURL = "https://befriend.co.jp/"
	// DefaultMaxDepth bounds the built-in crawl to the seed and the pages it links to
	DefaultMaxDepth = 2

	DefaultUserAgent        = "page-scraper/1.0"
	DefaultPageDelay        = 1 * time.Second
	DefaultRequestTimeout   = 10 * time.Second
	DefaultMaxPageSizeBytes = int64(10 * 1024 * 1024)

	VisitedBackendMemory = "memory"
	VisitedBackendBadger = "badger"

	OutputFormatText = "text"
	OutputFormatCSV  = "csv"
)

// SiteConfig holds configuration specific to a single crawl target
type SiteConfig struct {
	StartURL  string        `yaml:"start_url"`
	MaxDepth  int           `yaml:"max_depth,omitempty"`  // 0 = use default_max_depth
	UserAgent string        `yaml:"user_agent,omitempty"` // Empty = use default_user_agent
	PageDelay time.Duration `yaml:"page_delay,omitempty"` // Pause after each processed page; 0 = use default_page_delay
}

// AppConfig holds the global application configuration
type AppConfig struct {
	DefaultUserAgent   string                `yaml:"default_user_agent"`
	DefaultMaxDepth    int                   `yaml:"default_max_depth"`
	DefaultPageDelay   time.Duration         `yaml:"default_page_delay"`
	GlobalCrawlTimeout time.Duration         `yaml:"global_crawl_timeout,omitempty"` // 0 = no overall timeout
	MaxPageSizeBytes   int64                 `yaml:"max_page_size_bytes,omitempty"`
	VisitedBackend     string                `yaml:"visited_backend,omitempty"` // "memory" or "badger"
	OutputFormat       string                `yaml:"output_format,omitempty"`   // "text" or "csv"
	HTTPClientSettings HTTPClientConfig      `yaml:"http_client_settings,omitempty"`
	Sites              map[string]SiteConfig `yaml:"sites"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	Timeout             time.Duration `yaml:"timeout,omitempty"` // Per-request timeout
	MaxIdleConns        int           `yaml:"max_idle_conns,omitempty"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host,omitempty"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout,omitempty"`
	TLSHandshakeTimeout time.Duration `yaml:"tls_handshake_timeout,omitempty"`
	DialerTimeout       time.Duration `yaml:"dialer_timeout,omitempty"`
	DialerKeepAlive     time.Duration `yaml:"dialer_keep_alive,omitempty"`
	MaxRedirects        int           `yaml:"max_redirects,omitempty"`
}

// ResolvedSiteConfig holds the effective per-site values after falling back to global defaults
type ResolvedSiteConfig struct {
	StartURL  string
	MaxDepth  int
	UserAgent string
	PageDelay time.Duration
}

// DefaultAppConfig returns the configuration used when no config file is given:
// a single site crawling DefaultStartURL to DefaultMaxDepth
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Sites: map[string]SiteConfig{
			DefaultSiteKey: {StartURL: DefaultStartURL, MaxDepth: DefaultMaxDepth},
		},
	}
}

// NewResolvedSiteConfig merges site overrides over the global defaults
func NewResolvedSiteConfig(siteCfg SiteConfig, appCfg *AppConfig) *ResolvedSiteConfig {
	return &ResolvedSiteConfig{
		StartURL:  siteCfg.StartURL,
		MaxDepth:  GetEffectiveMaxDepth(siteCfg, appCfg),
		UserAgent: GetEffectiveUserAgent(siteCfg, appCfg),
		PageDelay: GetEffectivePageDelay(siteCfg, appCfg),
	}
}

// GetEffectiveMaxDepth determines the effective depth bound
func GetEffectiveMaxDepth(siteCfg SiteConfig, appCfg *AppConfig) int {
	if siteCfg.MaxDepth > 0 {
		return siteCfg.MaxDepth
	}
	if appCfg.DefaultMaxDepth > 0 {
		return appCfg.DefaultMaxDepth
	}
	return DefaultMaxDepth
}

// GetEffectiveUserAgent determines the User-Agent header sent for this site
func GetEffectiveUserAgent(siteCfg SiteConfig, appCfg *AppConfig) string {
	if siteCfg.UserAgent != "" {
		return siteCfg.UserAgent
	}
	if appCfg.DefaultUserAgent != "" {
		return appCfg.DefaultUserAgent
	}
	return DefaultUserAgent
}

// GetEffectivePageDelay determines the pause applied after each processed page
func GetEffectivePageDelay(siteCfg SiteConfig, appCfg *AppConfig) time.Duration {
	if siteCfg.PageDelay > 0 {
		return siteCfg.PageDelay
	}
	if appCfg.DefaultPageDelay > 0 {
		return appCfg.DefaultPageDelay
	}
	return DefaultPageDelay
}
