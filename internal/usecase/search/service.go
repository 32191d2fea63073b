// Package search filters a catalog snapshot by caller-supplied criteria.
package search

import (
	"context"
	"strings"

	"github.com/glp-archive/scribe/internal/domain/document"
	dsearch "github.com/glp-archive/scribe/internal/domain/search"
	"github.com/glp-archive/scribe/internal/usecase/catalog"
)

// SnapshotSource provides the current catalog snapshot.
type SnapshotSource interface {
	Require() (*catalog.Snapshot, error)
}

// Service filters documents. Filtering is pure: input documents are never
// mutated, so applying the same criteria twice yields identical results.
type Service struct {
	catalog SnapshotSource
}

// New creates a search service.
func New(catalog SnapshotSource) *Service {
	return &Service{catalog: catalog}
}

// Filter returns the subset of the current snapshot matching every supplied
// criterion. Unset criteria are skipped.
func (s *Service) Filter(_ context.Context, criteria dsearch.Criteria) ([]document.Document, error) {
	snap, err := s.catalog.Require()
	if err != nil {
		return nil, err
	}
	return Apply(snap.Documents(), criteria), nil
}

// Apply filters a document list by criteria. All supplied dimensions must
// match (conjunction); an empty dimension is always true.
func Apply(docs []document.Document, c dsearch.Criteria) []document.Document {
	out := make([]document.Document, 0, len(docs))
	for i := range docs {
		if Matches(&docs[i], c) {
			out = append(out, docs[i])
		}
	}
	return out
}

// Matches reports whether a single document satisfies the criteria.
func Matches(d *document.Document, c dsearch.Criteria) bool {
	if q := c.Query(); q != "" && !matchesQuery(d, q) {
		return false
	}
	if tags := c.Tags(); len(tags) > 0 {
		switch c.TagMode() {
		case dsearch.TagModeAll:
			if !MatchesAllTags(d, tags) {
				return false
			}
		default:
			if !MatchesAnyTag(d, tags) {
				return false
			}
		}
	}
	if types := c.Types(); len(types) > 0 && !matchesAnyType(d, types) {
		return false
	}
	if !matchesDateRange(d, c.DateFrom(), c.DateTo()) {
		return false
	}
	if !d.DateConfidence().AtLeast(c.MinConfidence()) {
		return false
	}
	if p := c.FolderPrefix(); p != "" && !strings.HasPrefix(d.Folder(), p) {
		return false
	}
	return true
}

// MatchesAnyTag reports whether the document carries at least one of the
// given tags (case-insensitive).
func MatchesAnyTag(d *document.Document, tags []string) bool {
	for _, want := range tags {
		if hasTag(d, want) {
			return true
		}
	}
	return false
}

// MatchesAllTags reports whether the document carries every given tag
// (case-insensitive).
func MatchesAllTags(d *document.Document, tags []string) bool {
	for _, want := range tags {
		if !hasTag(d, want) {
			return false
		}
	}
	return true
}

func hasTag(d *document.Document, want string) bool {
	for _, have := range d.Tags() {
		if strings.EqualFold(have, want) {
			return true
		}
	}
	return false
}

// matchesQuery does a case-insensitive substring match against the summary,
// the file name, or the cleaned path. Any one hit qualifies.
func matchesQuery(d *document.Document, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(d.Summary()), q) ||
		strings.Contains(strings.ToLower(d.FileName()), q) ||
		strings.Contains(strings.ToLower(d.Path()), q)
}

func matchesAnyType(d *document.Document, types []string) bool {
	for _, t := range types {
		if strings.EqualFold(d.Type(), t) {
			return true
		}
	}
	return false
}

// matchesDateRange compares the raw date value lexically (not as a calendar
// date). The constraint applies only when the document carries a raw date;
// undated documents pass through a date-bounded search untouched.
func matchesDateRange(d *document.Document, from, to string) bool {
	if from == "" && to == "" {
		return true
	}
	raw := d.RawDate()
	if raw == "" {
		return true
	}
	if from != "" && raw < from {
		return false
	}
	if to != "" && raw > to {
		return false
	}
	return true
}
