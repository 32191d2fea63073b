package manifest

import (
	"context"
	"errors"
	"testing"

	"github.com/glp-archive/scribe/internal/domain"
)

// --- Mocks ---

type mockStore struct {
	keys    []string
	docs    map[string]string // key -> JSON.GET payload ($-wrapped array)
	scanErr error
	getErr  error
}

func (m *mockStore) Scan(_ context.Context, _ string) ([]string, error) {
	return m.keys, m.scanErr
}

func (m *mockStore) JSONGet(_ context.Context, key string, _ ...string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return []byte(m.docs[key]), nil
}

// --- Tests ---

func TestStoreLoader_Load(t *testing.T) {
	s := &mockStore{
		// SCAN order is arbitrary; the loader must sort.
		keys: []string{"scribe:doc:2", "scribe:doc:1"},
		docs: map[string]string{
			"scribe:doc:1": `[{"folder": "box1", "file_path": "extracted/box1/a.txt", "date": {"value": "1944", "confidence": "high"}}]`,
			"scribe:doc:2": `[{"folder": "box2", "file_path": "extracted/box2/b.txt", "category": {"tags": ["faith"], "type": "sermon"}}]`,
		},
	}

	loader := NewStoreLoader(s, "scribe:doc:")
	entries, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Folder != "box1" || entries[1].Folder != "box2" {
		t.Errorf("key-sorted order: got %q, %q", entries[0].Folder, entries[1].Folder)
	}
	if entries[1].Record.Category.Type != "sermon" {
		t.Errorf("category type: got %q", entries[1].Record.Category.Type)
	}
}

func TestStoreLoader_ScanError(t *testing.T) {
	loader := NewStoreLoader(&mockStore{scanErr: errors.New("connection lost")}, "scribe:doc:")
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("expected error when scan fails")
	}
}

func TestStoreLoader_BadRecordFailsWholeLoad(t *testing.T) {
	s := &mockStore{
		keys: []string{"scribe:doc:1", "scribe:doc:2"},
		docs: map[string]string{
			"scribe:doc:1": `[{"folder": "box1", "file_path": "a.txt"}]`,
			"scribe:doc:2": `not json`,
		},
	}

	loader := NewStoreLoader(s, "scribe:doc:")
	_, err := loader.Load(context.Background())
	if !errors.Is(err, domain.ErrManifestInvalid) {
		t.Fatalf("expected ErrManifestInvalid, got %v", err)
	}
}

func TestStoreLoader_EmptyRecord(t *testing.T) {
	s := &mockStore{
		keys: []string{"scribe:doc:1"},
		docs: map[string]string{"scribe:doc:1": `[]`},
	}

	loader := NewStoreLoader(s, "scribe:doc:")
	_, err := loader.Load(context.Background())
	if !errors.Is(err, domain.ErrManifestInvalid) {
		t.Fatalf("expected ErrManifestInvalid, got %v", err)
	}
}
