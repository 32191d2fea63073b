// Package manifest provides the interchangeable manifest Loader
// implementations: a static JSON file served over HTTP, and a document
// store holding one record per document.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/glp-archive/scribe/internal/domain"
	"github.com/glp-archive/scribe/internal/usecase/catalog"
)

// Compile-time check: HTTPLoader implements catalog.Loader.
var _ catalog.Loader = (*HTTPLoader)(nil)

// HTTPLoader fetches a static manifest JSON over HTTP.
type HTTPLoader struct {
	client   *http.Client
	url      string
	maxBytes int64
}

// NewHTTPLoader creates a loader for a manifest at url.
func NewHTTPLoader(url string, timeout time.Duration, maxBytes int64) *HTTPLoader {
	return &HTTPLoader{
		client:   &http.Client{Timeout: timeout},
		url:      url,
		maxBytes: maxBytes,
	}
}

// Load fetches and flattens the manifest. A non-2xx status or a parse
// failure is a collection-level error; no partial manifest is ever
// returned.
func (l *HTTPLoader) Load(ctx context.Context) ([]catalog.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrManifestInvalid, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m manifestDTO
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", domain.ErrManifestInvalid, err)
	}

	return flatten(m), nil
}

// flatten turns the nested folder map into an ordered entry list. Folder
// keys are sorted so the collection order is stable across loads; stable
// ordering is what downstream tie-breaking rules lean on.
func flatten(m manifestDTO) []catalog.Entry {
	folders := make([]string, 0, len(m.Folders))
	for f := range m.Folders {
		folders = append(folders, f)
	}
	sort.Strings(folders)

	var entries []catalog.Entry
	for _, f := range folders {
		for _, rec := range m.Folders[f].Documents {
			entries = append(entries, toEntry(f, rec))
		}
	}
	return entries
}
