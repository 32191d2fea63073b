// Package related ranks documents by tag overlap with a subject document.
package related

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/glp-archive/scribe/internal/domain"
	"github.com/glp-archive/scribe/internal/domain/document"
	"github.com/glp-archive/scribe/internal/usecase/catalog"
)

// DefaultLimit caps related-document results when the caller passes 0.
const DefaultLimit = 5

// SnapshotSource provides the current catalog snapshot.
type SnapshotSource interface {
	Require() (*catalog.Snapshot, error)
}

// Service computes related documents for a subject path.
type Service struct {
	catalog SnapshotSource
	limit   int
}

// New creates a related-documents service. limit <= 0 uses DefaultLimit.
func New(catalog SnapshotSource, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{catalog: catalog, limit: limit}
}

// For returns up to limit documents related to the document at path.
// limit <= 0 uses the service default.
func (s *Service) For(_ context.Context, path string, limit int) ([]document.Document, error) {
	snap, err := s.catalog.Require()
	if err != nil {
		return nil, err
	}
	subject, ok := snap.Get(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, path)
	}
	if limit <= 0 {
		limit = s.limit
	}
	return Rank(subject, snap.Documents(), limit), nil
}

// Rank scores every candidate by shared-tag count with the subject and
// returns the top matches: the subject itself and zero-overlap candidates
// are excluded, ties keep original collection order. Pure function.
func Rank(subject document.Document, docs []document.Document, limit int) []document.Document {
	subjectTags := make(map[string]struct{}, len(subject.Tags()))
	for _, t := range subject.Tags() {
		subjectTags[strings.ToLower(t)] = struct{}{}
	}

	type scored struct {
		doc     document.Document
		overlap int
	}
	candidates := make([]scored, 0, len(docs))
	for i := range docs {
		if docs[i].Path() == subject.Path() {
			continue
		}
		overlap := 0
		for _, t := range docs[i].Tags() {
			if _, ok := subjectTags[strings.ToLower(t)]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			candidates = append(candidates, scored{doc: docs[i], overlap: overlap})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].overlap > candidates[j].overlap
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]document.Document, len(candidates))
	for i, c := range candidates {
		out[i] = c.doc
	}
	return out
}
