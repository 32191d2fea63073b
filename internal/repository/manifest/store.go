package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/glp-archive/scribe/internal/domain"
	"github.com/glp-archive/scribe/internal/usecase/catalog"
)

// store is the consumer interface for the document-store provider (ISP).
type store interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// Compile-time check: StoreLoader implements catalog.Loader.
var _ catalog.Loader = (*StoreLoader)(nil)

// StoreLoader reads one flattened record per document from the document
// store. The aggregate statistics record lives under its own key outside
// keyPrefix and is not consulted.
type StoreLoader struct {
	store     store
	keyPrefix string
}

// NewStoreLoader creates a document-store manifest loader.
func NewStoreLoader(s store, keyPrefix string) *StoreLoader {
	return &StoreLoader{store: s, keyPrefix: keyPrefix}
}

// Load scans all document keys and hydrates each record. Any read or parse
// failure fails the whole load; no partial manifest is returned.
func (l *StoreLoader) Load(ctx context.Context) ([]catalog.Entry, error) {
	keys, err := l.store.Scan(ctx, l.keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	// SCAN order is arbitrary; sort for a stable collection order.
	sort.Strings(keys)

	entries := make([]catalog.Entry, 0, len(keys))
	for _, key := range keys {
		raw, err := l.store.JSONGet(ctx, key, "$")
		if err != nil {
			return nil, fmt.Errorf("json.get %s: %w", key, err)
		}

		// JSON.GET with a $ path wraps the value in an array.
		var recs []storeRecordDTO
		if err := json.Unmarshal(raw, &recs); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrManifestInvalid, key, err)
		}
		if len(recs) == 0 {
			return nil, fmt.Errorf("%w: empty record at %s", domain.ErrManifestInvalid, key)
		}
		entries = append(entries, toEntry(recs[0].Folder, recs[0].recordDTO))
	}
	return entries, nil
}
