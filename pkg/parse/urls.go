package parse

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yumyum-02/scraping/pkg/utils"
)

// ParseAbsolute parses a URL string using the stricter url.ParseRequestURI and requires a host
// The returned URL is otherwise left exactly as written: no case folding, port or path rewriting
func ParseAbsolute(rawURL string) (*url.URL, error) {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing URL '%s': %w", utils.ErrParsing, rawURL, err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%w: URL '%s' has no host", utils.ErrParsing, rawURL)
	}
	return parsed, nil
}

// Host returns the host[:port] component of an absolute URL string
// Two URLs belong to the same site when their Host values are equal
func Host(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: parsing URL '%s': %w", utils.ErrParsing, rawURL, err)
	}
	return parsed.Host, nil
}

// Resolve resolves an href found on a page against that page's URL
// Absolute hrefs are returned unchanged; surrounding whitespace in the attribute is ignored
func Resolve(base *url.URL, href string) (*url.URL, error) {
	ref := strings.TrimSpace(href)
	resolved, err := base.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving URL '%s' against '%s': %w", utils.ErrParsing, href, base.String(), err)
	}
	return resolved, nil
}
