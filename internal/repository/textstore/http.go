// Package textstore fetches per-document raw text from the archive's text
// backend and caches successful bodies in memory.
package textstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/glp-archive/scribe/internal/domain"
)

// Config holds fetcher settings.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	MaxBytes      int64
	CacheTTL      time.Duration
	ObjectStorage bool // rewrite paths for a bucket backend

	// Metric vectors; nil disables instrumentation.
	Fetches *prometheus.CounterVec // label: status (ok, error)
	Cache   *prometheus.CounterVec // label: result (hit, miss)
}

// Fetcher retrieves document text over HTTP.
type Fetcher struct {
	client        *http.Client
	baseURL       string
	maxBytes      int64
	objectStorage bool
	cache         *gocache.Cache
	cacheTTL      time.Duration
	fetches       *prometheus.CounterVec
	cacheMetric   *prometheus.CounterVec
}

// NewFetcher creates a text fetcher.
func NewFetcher(cfg Config) *Fetcher {
	return &Fetcher{
		client:        &http.Client{Timeout: cfg.Timeout},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		maxBytes:      cfg.MaxBytes,
		objectStorage: cfg.ObjectStorage,
		cache:         gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		cacheTTL:      cfg.CacheTTL,
		fetches:       cfg.Fetches,
		cacheMetric:   cfg.Cache,
	}
}

// Text returns the raw text of the document at the given cleaned path.
// A fetch failure is scoped to that document: ErrTextUnavailable, nothing
// collection-level. Failed fetches are not cached; the next request
// retries.
func (f *Fetcher) Text(ctx context.Context, path string) (string, error) {
	if cached, ok := f.cache.Get(path); ok {
		f.count(f.cacheMetric, "hit")
		return cached.(string), nil
	}
	f.count(f.cacheMetric, "miss")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.textURL(path), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.count(f.fetches, "error")
		return "", fmt.Errorf("%w: %s: %w", domain.ErrTextUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.count(f.fetches, "error")
		return "", fmt.Errorf("%w: %s: status %d", domain.ErrTextUnavailable, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		f.count(f.fetches, "error")
		return "", fmt.Errorf("%w: %s: read: %w", domain.ErrTextUnavailable, path, err)
	}

	f.count(f.fetches, "ok")
	text := string(body)
	f.cache.Set(path, text, f.cacheTTL)
	return text, nil
}

// textURL derives the fetch URL from a cleaned document path. The object
// storage form keeps the whole path in one URL segment: every segment
// percent-encoded and the slashes escaped to %2F, per the bucket object
// naming convention.
func (f *Fetcher) textURL(path string) string {
	if f.objectStorage {
		return f.baseURL + "/" + url.PathEscape(path)
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return f.baseURL + "/" + strings.Join(segments, "/")
}

func (f *Fetcher) count(vec *prometheus.CounterVec, label string) {
	if vec != nil {
		vec.WithLabelValues(label).Inc()
	}
}
