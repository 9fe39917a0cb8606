package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/yumyum-02/scraping/pkg/utils"
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	if c.DefaultUserAgent == "" {
		c.DefaultUserAgent = DefaultUserAgent
	}

	if c.DefaultMaxDepth <= 0 {
		if c.DefaultMaxDepth < 0 {
			warnings = append(warnings, fmt.Sprintf("default_max_depth should be > 0, defaulting to %d", DefaultMaxDepth))
		}
		c.DefaultMaxDepth = DefaultMaxDepth
	}

	if c.DefaultPageDelay < 0 {
		warnings = append(warnings, fmt.Sprintf("default_page_delay cannot be negative, defaulting to %v", DefaultPageDelay))
		c.DefaultPageDelay = DefaultPageDelay
	} else if c.DefaultPageDelay == 0 {
		c.DefaultPageDelay = DefaultPageDelay
	}

	if c.GlobalCrawlTimeout < 0 {
		warnings = append(warnings, "global_crawl_timeout cannot be negative, disabling timeout")
		c.GlobalCrawlTimeout = 0
	}

	if c.MaxPageSizeBytes < 0 {
		warnings = append(warnings, "max_page_size_bytes cannot be negative, using default")
		c.MaxPageSizeBytes = DefaultMaxPageSizeBytes
	} else if c.MaxPageSizeBytes == 0 {
		c.MaxPageSizeBytes = DefaultMaxPageSizeBytes
	}

	switch c.VisitedBackend {
	case VisitedBackendMemory, VisitedBackendBadger:
	case "":
		c.VisitedBackend = VisitedBackendMemory
	default:
		warnings = append(warnings, fmt.Sprintf("unknown visited_backend '%s', defaulting to '%s'", c.VisitedBackend, VisitedBackendMemory))
		c.VisitedBackend = VisitedBackendMemory
	}

	switch c.OutputFormat {
	case OutputFormatText, OutputFormatCSV:
	case "":
		c.OutputFormat = OutputFormatText
	default:
		warnings = append(warnings, fmt.Sprintf("unknown output_format '%s', defaulting to '%s'", c.OutputFormat, OutputFormatText))
		c.OutputFormat = OutputFormatText
	}

	c.validateHTTPClientSettings()

	if len(c.Sites) == 0 {
		warnings = append(warnings, "no sites configured")
	}

	return warnings, nil // AppConfig validation never fails fatally
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *AppConfig) validateHTTPClientSettings() {
	h := &c.HTTPClientSettings
	if h.Timeout <= 0 {
		h.Timeout = DefaultRequestTimeout
	}
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 10
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 2
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = 10 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
	if h.MaxRedirects <= 0 {
		h.MaxRedirects = 10
	}
}

// Validate checks SiteConfig fields.
// Returns collected warnings and any fatal error.
func (c *SiteConfig) Validate() (warnings []string, err error) {
	if c.StartURL == "" {
		return nil, utils.WrapErrorf(utils.ErrConfigValidation, "site has no start_url")
	}

	parsed, parseErr := url.ParseRequestURI(c.StartURL)
	if parseErr != nil {
		return nil, fmt.Errorf("%w: invalid start_url '%s': %w", utils.ErrConfigValidation, c.StartURL, parseErr)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, utils.WrapErrorf(utils.ErrConfigValidation, "start_url '%s' must use http or https", c.StartURL)
	}
	if parsed.Host == "" {
		return nil, utils.WrapErrorf(utils.ErrConfigValidation, "start_url '%s' has no host", c.StartURL)
	}

	if c.MaxDepth < 0 {
		warnings = append(warnings, "Site max_depth cannot be negative, using default_max_depth")
		c.MaxDepth = 0
	}

	if c.PageDelay < 0 {
		warnings = append(warnings, "Site page_delay cannot be negative, using default_page_delay")
		c.PageDelay = 0
	}

	return warnings, nil
}
