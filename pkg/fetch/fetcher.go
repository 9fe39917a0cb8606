package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yumyum-02/scraping/pkg/utils"
)

// Page is a fetched and decoded HTML response
type Page struct {
	URL         *url.URL // The requested URL
	FinalURL    *url.URL // URL after redirects
	StatusCode  int
	ContentType string
	Encoding    string // Name of the encoding the body was decoded from
	Body        []byte // UTF-8 body
}

// PageFetcher retrieves a single page. Implementations never retry.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// Fetcher performs one HTTP GET per page using an underlying http.Client
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	log          *logrus.Entry
}

// NewFetcher creates a new Fetcher instance
func NewFetcher(client *http.Client, userAgent string, maxBodyBytes int64, log *logrus.Entry) *Fetcher {
	return &Fetcher{
		client:       client,
		userAgent:    userAgent,
		maxBodyBytes: maxBodyBytes,
		log:          log,
	}
}

// Fetch issues a single GET for rawURL and returns the decoded page.
// Every failure (request creation, transport, non-2xx status, body read, decoding) is returned
// as an error wrapping one of the sentinels in utils; the response body is always closed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	reqLog := f.log.WithField("url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request for '%s': %w", utils.ErrRequestCreation, rawURL, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		reqLog.Debugf("Network error: %v", err)
		return nil, fmt.Errorf("%w: requesting '%s': %w", utils.ErrNetwork, rawURL, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	statusCode := resp.StatusCode
	resLog := reqLog.WithFields(logrus.Fields{"status_code": statusCode})
	switch {
	case statusCode >= 200 && statusCode < 300:
		resLog.Debug("Successfully fetched")
	case statusCode >= 500:
		return nil, fmt.Errorf("%w: status %d %s", utils.ErrServerHTTPError, statusCode, http.StatusText(statusCode))
	case statusCode >= 400:
		return nil, fmt.Errorf("%w: status %d %s", utils.ErrClientHTTPError, statusCode, http.StatusText(statusCode))
	default:
		return nil, fmt.Errorf("%w: status %d %s", utils.ErrOtherHTTPError, statusCode, http.StatusText(statusCode))
	}

	body, err := f.readBody(resp.Body, rawURL)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	ctLower := strings.ToLower(contentType)
	if contentType != "" && !strings.HasPrefix(ctLower, "text/html") && !strings.HasPrefix(ctLower, "application/xhtml+xml") {
		resLog.Debugf("Unexpected Content-Type '%s'. Proceeding with parsing attempt.", contentType)
	}

	decoded, encodingName, err := decodeBody(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("decoding body from '%s': %w", rawURL, err)
	}
	resLog.WithFields(logrus.Fields{"bytes": len(body), "encoding": encodingName}).Debug("Decoded response body")

	return &Page{
		URL:         req.URL,
		FinalURL:    resp.Request.URL,
		StatusCode:  statusCode,
		ContentType: contentType,
		Encoding:    encodingName,
		Body:        decoded,
	}, nil
}

// readBody reads the response body with a size limit to prevent OOM on oversized pages
func (f *Fetcher) readBody(r io.Reader, rawURL string) ([]byte, error) {
	if f.maxBodyBytes <= 0 {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading body from '%s': %w", utils.ErrResponseBodyRead, rawURL, err)
		}
		return body, nil
	}

	body, err := io.ReadAll(io.LimitReader(r, f.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body from '%s': %w", utils.ErrResponseBodyRead, rawURL, err)
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, fmt.Errorf("%w: page '%s' exceeds max size (%d bytes)", utils.ErrResponseBodyRead, rawURL, f.maxBodyBytes)
	}
	return body, nil
}
