package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/glp-archive/scribe/internal/domain"
	"github.com/glp-archive/scribe/internal/domain/document"
)

// Snapshot is one immutable view of the normalized document collection.
// Replaced wholesale on reload, never mutated in place.
type Snapshot struct {
	docs     []document.Document
	byPath   map[string]int
	loadedAt time.Time
	seq      uint64
}

// Documents returns the normalized documents in manifest order.
// Callers must not mutate the slice.
func (s *Snapshot) Documents() []document.Document { return s.docs }

// Get returns the document with the given cleaned path.
func (s *Snapshot) Get(path string) (document.Document, bool) {
	i, ok := s.byPath[path]
	if !ok {
		return document.Document{}, false
	}
	return s.docs[i], true
}

// Len returns the number of documents.
func (s *Snapshot) Len() int { return len(s.docs) }

// LoadedAt returns when the snapshot was installed.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Service owns the manifest snapshot lifecycle: fetch, normalize, install.
type Service struct {
	loader     Loader
	rootPrefix string
	logger     *zap.Logger

	mu      sync.RWMutex
	current *Snapshot
	nextSeq uint64
	lastSeq uint64 // seq of the installed snapshot's load
}

// New creates a catalog service. rootPrefix is the ingestion-root prefix
// stripped from raw paths during normalization.
func New(loader Loader, rootPrefix string, logger *zap.Logger) *Service {
	return &Service{loader: loader, rootPrefix: rootPrefix, logger: logger}
}

// Load fetches the manifest and installs a fresh snapshot. A load that
// finishes after a later-started load has already installed is discarded:
// re-fetching supersedes, a stale result must never overwrite a newer one.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	s.nextSeq++
	seq := s.nextSeq
	s.mu.Unlock()

	entries, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	docs := make([]document.Document, 0, len(entries))
	byPath := make(map[string]int, len(entries))
	for _, e := range entries {
		doc := Normalize(e.Record, e.Folder, s.rootPrefix)
		if prev, dup := byPath[doc.Path()]; dup {
			return fmt.Errorf("%w: duplicate path %q (records %d and %d)",
				domain.ErrManifestInvalid, doc.Path(), prev, len(docs))
		}
		byPath[doc.Path()] = len(docs)
		docs = append(docs, doc)
	}

	snap := &Snapshot{docs: docs, byPath: byPath, loadedAt: time.Now(), seq: seq}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.lastSeq {
		s.logger.Warn("discarding stale manifest load",
			zap.Uint64("seq", seq), zap.Uint64("installed_seq", s.lastSeq))
		return nil
	}
	s.current = snap
	s.lastSeq = seq
	s.logger.Info("manifest snapshot installed",
		zap.Uint64("seq", seq), zap.Int("documents", len(docs)))
	return nil
}

// Snapshot returns the current snapshot. ok is false before the first
// successful load.
func (s *Service) Snapshot() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

// Require returns the current snapshot or ErrManifestUnavailable.
func (s *Service) Require() (*Snapshot, error) {
	snap, ok := s.Snapshot()
	if !ok {
		return nil, domain.ErrManifestUnavailable
	}
	return snap, nil
}

// HealthCheck reports whether a snapshot is available.
func (s *Service) HealthCheck(_ context.Context) error {
	if _, ok := s.Snapshot(); !ok {
		return domain.ErrManifestUnavailable
	}
	return nil
}

// Normalize converts one raw manifest record into a normalized document.
// rootPrefix is stripped from the raw path when present; the folder path is
// the directory part of the cleaned path, falling back to the source folder.
func Normalize(rec document.RawRecord, sourceFolder, rootPrefix string) document.Document {
	path := rec.FilePath
	if rootPrefix != "" && strings.HasPrefix(path, rootPrefix) {
		path = path[len(rootPrefix):]
	}

	folder := sourceFolder
	if i := strings.LastIndex(path, "/"); i > 0 {
		folder = path[:i]
	}

	name := rec.FileName
	if name == "" {
		name = path
		if i := strings.LastIndex(path, "/"); i >= 0 {
			name = path[i+1:]
		}
	}

	return document.Reconstruct(
		path, folder, name,
		ExtractYear(rec.Date.Value),
		rec.Date, rec.Category, rec.Summary,
	)
}
