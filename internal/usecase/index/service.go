// Package index derives browse aggregates from a catalog snapshot: totals,
// tag and type frequency tables, date coverage, and the folder tree.
package index

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/glp-archive/scribe/internal/domain/document"
	"github.com/glp-archive/scribe/internal/domain/folder"
	"github.com/glp-archive/scribe/internal/usecase/catalog"
)

// SnapshotSource provides the current catalog snapshot.
type SnapshotSource interface {
	Require() (*catalog.Snapshot, error)
}

// TagCount is one row of the tag frequency table.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TypeCount is one row of the document-type frequency table.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Summary aggregates collection-level statistics.
type Summary struct {
	TotalDocuments  int         `json:"total_documents"`
	FolderCount     int         `json:"folder_count"`
	DateCoveragePct float64     `json:"date_coverage_pct"`
	EarliestYear    int         `json:"earliest_year,omitempty"`
	LatestYear      int         `json:"latest_year,omitempty"`
	Tags            []TagCount  `json:"tags"`
	Types           []TypeCount `json:"types"`
}

// Service computes aggregates over the current snapshot. All derivations
// are synchronous and deterministic; nothing is updated incrementally.
type Service struct {
	catalog SnapshotSource
}

// New creates an index service.
func New(catalog SnapshotSource) *Service {
	return &Service{catalog: catalog}
}

// Summary returns collection-level statistics for the current snapshot.
func (s *Service) Summary(_ context.Context) (Summary, error) {
	snap, err := s.catalog.Require()
	if err != nil {
		return Summary{}, err
	}
	return Summarize(snap.Documents()), nil
}

// Tags returns the merged tag frequency table.
func (s *Service) Tags(_ context.Context) ([]TagCount, error) {
	snap, err := s.catalog.Require()
	if err != nil {
		return nil, err
	}
	return TagTable(snap.Documents()), nil
}

// Types returns the document-type frequency table.
func (s *Service) Types(_ context.Context) ([]TypeCount, error) {
	snap, err := s.catalog.Require()
	if err != nil {
		return nil, err
	}
	return TypeTable(snap.Documents()), nil
}

// Tree returns the folder tree for the current snapshot.
func (s *Service) Tree(_ context.Context) ([]*folder.Node, error) {
	snap, err := s.catalog.Require()
	if err != nil {
		return nil, err
	}
	return BuildTree(snap.Documents()), nil
}

// Summarize computes collection statistics from a document list.
func Summarize(docs []document.Document) Summary {
	folders := make(map[string]struct{})
	dated := 0
	earliest, latest := 0, 0
	for i := range docs {
		d := &docs[i]
		folders[d.Folder()] = struct{}{}
		if d.HasYear() {
			dated++
			if earliest == 0 || d.Year() < earliest {
				earliest = d.Year()
			}
			if d.Year() > latest {
				latest = d.Year()
			}
		}
	}

	coverage := 0.0
	if len(docs) > 0 {
		coverage = float64(dated) / float64(len(docs)) * 100
	}

	return Summary{
		TotalDocuments:  len(docs),
		FolderCount:     len(folders),
		DateCoveragePct: coverage,
		EarliestYear:    earliest,
		LatestYear:      latest,
		Tags:            TagTable(docs),
		Types:           TypeTable(docs),
	}
}

// TagTable counts tags case-insensitively. The displayed label is the
// variant with the most uppercase letters; ties keep the first-seen form.
// Rows are sorted by descending count, ties in first-encounter order.
func TagTable(docs []document.Document) []TagCount {
	counts := make(map[string]int)
	labels := make(map[string]string)
	var order []string

	for i := range docs {
		for _, tag := range docs[i].Tags() {
			if tag == "" {
				continue
			}
			key := strings.ToLower(tag)
			if _, seen := counts[key]; !seen {
				order = append(order, key)
				labels[key] = tag
			} else if upperCount(tag) > upperCount(labels[key]) {
				labels[key] = tag
			}
			counts[key]++
		}
	}

	table := make([]TagCount, 0, len(order))
	for _, key := range order {
		table = append(table, TagCount{Tag: labels[key], Count: counts[key]})
	}
	sort.SliceStable(table, func(i, j int) bool { return table[i].Count > table[j].Count })
	return table
}

// TypeTable counts primary document types. Rows are sorted by descending
// count, ties in first-encounter order.
func TypeTable(docs []document.Document) []TypeCount {
	counts := make(map[string]int)
	var order []string

	for i := range docs {
		t := docs[i].Type()
		if t == "" {
			continue
		}
		if _, seen := counts[t]; !seen {
			order = append(order, t)
		}
		counts[t]++
	}

	table := make([]TypeCount, 0, len(order))
	for _, t := range order {
		table = append(table, TypeCount{Type: t, Count: counts[t]})
	}
	sort.SliceStable(table, func(i, j int) bool { return table[i].Count > table[j].Count })
	return table
}

func upperCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n
}
