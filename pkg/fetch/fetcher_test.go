package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/japanese"

	"github.com/yumyum-02/scraping/pkg/config"
	"github.com/yumyum-02/scraping/pkg/utils"
)

// testLogger returns a logger that discards output
func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

// testClient returns an http.Client suitable for testing
func testClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

// mockServer creates an httptest.Server that always answers with the given status,
// content type and body. Returns the server and an atomic counter tracking requests.
func mockServer(t *testing.T, statusCode int, contentType string, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	attemptCount := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attemptCount.Add(1)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(statusCode)
		w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server, attemptCount
}

func TestFetch_Success(t *testing.T) {
	body := []byte("<html><head><title>Hello</title></head></html>")
	server, attempts := mockServer(t, http.StatusOK, "text/html; charset=utf-8", body)

	fetcher := NewFetcher(testClient(), "test-agent", 0, testLogger())
	page, err := fetcher.Fetch(context.Background(), server.URL+"/index.html")

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if page.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", page.StatusCode)
	}
	if string(page.Body) != string(body) {
		t.Errorf("unexpected body: %q", page.Body)
	}
	if page.URL.String() != server.URL+"/index.html" {
		t.Errorf("unexpected page URL: %s", page.URL)
	}
	if page.Encoding != "utf-8" {
		t.Errorf("expected utf-8 encoding, got %q", page.Encoding)
	}
	if attempts.Load() != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts.Load())
	}
}

func TestFetch_SendsUserAgent(t *testing.T) {
	var gotUA atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(testClient(), "page-scraper-test/1.0", 0, testLogger())
	if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if gotUA.Load() != "page-scraper-test/1.0" {
		t.Errorf("expected custom User-Agent, got %v", gotUA.Load())
	}
}

func TestFetch_StatusErrors_NoRetry(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		sentinel   error
	}{
		{"404 Not Found", http.StatusNotFound, utils.ErrClientHTTPError},
		{"403 Forbidden", http.StatusForbidden, utils.ErrClientHTTPError},
		{"429 Too Many Requests", http.StatusTooManyRequests, utils.ErrClientHTTPError},
		{"500 Internal Server Error", http.StatusInternalServerError, utils.ErrServerHTTPError},
		{"503 Service Unavailable", http.StatusServiceUnavailable, utils.ErrServerHTTPError},
		{"304 Not Modified", http.StatusNotModified, utils.ErrOtherHTTPError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, attempts := mockServer(t, tt.statusCode, "text/html", nil)

			fetcher := NewFetcher(testClient(), "", 0, testLogger())
			page, err := fetcher.Fetch(context.Background(), server.URL)

			if err == nil {
				t.Fatal("expected error for non-2xx status")
			}
			if page != nil {
				t.Error("expected nil page on error")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("expected %v, got: %v", tt.sentinel, err)
			}
			if attempts.Load() != 1 {
				t.Errorf("expected exactly 1 attempt, got %d", attempts.Load())
			}
		})
	}
}

func TestFetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // Nothing listens any more

	fetcher := NewFetcher(testClient(), "", 0, testLogger())
	_, err := fetcher.Fetch(context.Background(), url)

	if !errors.Is(err, utils.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got: %v", err)
	}
	if !strings.Contains(err.Error(), url) {
		t.Errorf("expected error to name the URL, got: %v", err)
	}
	if got := utils.CategorizeError(err); got != "Network_ConnectionRefused" {
		t.Errorf("expected Network_ConnectionRefused, got %q", got)
	}
}

func TestFetch_InvalidURL(t *testing.T) {
	fetcher := NewFetcher(testClient(), "", 0, testLogger())
	_, err := fetcher.Fetch(context.Background(), "http://[::1")

	if !errors.Is(err, utils.ErrRequestCreation) {
		t.Errorf("expected ErrRequestCreation, got: %v", err)
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := &http.Client{Timeout: 50 * time.Millisecond}
	fetcher := NewFetcher(client, "", 0, testLogger())

	start := time.Now()
	_, err := fetcher.Fetch(context.Background(), server.URL)

	if !errors.Is(err, utils.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	server, attempts := mockServer(t, http.StatusOK, "text/html", []byte("<html></html>"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewFetcher(testClient(), "", 0, testLogger())
	_, err := fetcher.Fetch(ctx, server.URL)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
	if attempts.Load() != 0 {
		t.Errorf("expected no request to reach the server, got %d", attempts.Load())
	}
}

func TestFetch_BodyTooLarge(t *testing.T) {
	server, _ := mockServer(t, http.StatusOK, "text/html", []byte(strings.Repeat("a", 64)))

	fetcher := NewFetcher(testClient(), "", 16, testLogger())
	_, err := fetcher.Fetch(context.Background(), server.URL)

	if !errors.Is(err, utils.ErrResponseBodyRead) {
		t.Errorf("expected ErrResponseBodyRead, got: %v", err)
	}
}

func TestFetch_DecodesDeclaredCharset(t *testing.T) {
	html := "<html><head><title>会社概要</title></head><body><h1>ようこそ</h1></body></html>"
	encoded, err := japanese.ShiftJIS.NewEncoder().String(html)
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	server, _ := mockServer(t, http.StatusOK, "text/html; charset=Shift_JIS", []byte(encoded))

	fetcher := NewFetcher(testClient(), "", 0, testLogger())
	page, err := fetcher.Fetch(context.Background(), server.URL)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(page.Body) != html {
		t.Errorf("body not decoded to UTF-8: %q", page.Body)
	}
	if page.Encoding != "shift_jis" {
		t.Errorf("expected shift_jis, got %q", page.Encoding)
	}
}

func TestFetch_DecodesMetaCharset(t *testing.T) {
	html := `<html><head><meta charset="euc-jp"><title>テスト</title></head></html>`
	encoded, err := japanese.EUCJP.NewEncoder().String(html)
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	server, _ := mockServer(t, http.StatusOK, "text/html", []byte(encoded))

	fetcher := NewFetcher(testClient(), "", 0, testLogger())
	page, err := fetcher.Fetch(context.Background(), server.URL)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(page.Body) != html {
		t.Errorf("body not decoded from meta charset: %q", page.Body)
	}
}

func TestNewClient_AppliesConfig(t *testing.T) {
	cfg := config.HTTPClientConfig{Timeout: 3 * time.Second, MaxIdleConns: 7, MaxRedirects: 2}

	client := NewClient(cfg, testLogger())

	if client.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", client.Timeout)
	}
	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", client.Transport)
	}
	if transport.MaxIdleConns != 7 {
		t.Errorf("expected MaxIdleConns 7, got %d", transport.MaxIdleConns)
	}
}

func TestNewClient_StopsAfterMaxRedirects(t *testing.T) {
	var hits atomic.Int32
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Redirect(w, r, server.URL+"/loop", http.StatusFound)
	}))
	defer server.Close()

	client := NewClient(config.HTTPClientConfig{Timeout: 5 * time.Second, MaxRedirects: 2}, testLogger())
	fetcher := NewFetcher(client, "", 0, testLogger())

	_, err := fetcher.Fetch(context.Background(), server.URL)

	if err == nil || !strings.Contains(err.Error(), "stopped after 2 redirects") {
		t.Errorf("expected redirect limit error, got: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("expected 2 requests before the redirect limit, got %d", hits.Load())
	}
}
