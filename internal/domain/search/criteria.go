package search

import (
	"fmt"

	"github.com/glp-archive/scribe/internal/domain"
	"github.com/glp-archive/scribe/internal/domain/document"
)

// TagMode selects which tag predicate a filter call uses.
type TagMode string

const (
	// TagModeAny matches documents carrying at least one of the selected tags.
	TagModeAny TagMode = "any"
	// TagModeAll matches documents carrying every selected tag.
	TagModeAll TagMode = "all"
)

// ParseTagMode validates a tag mode label. Empty defaults to TagModeAny.
func ParseTagMode(s string) (TagMode, error) {
	switch s {
	case "", string(TagModeAny):
		return TagModeAny, nil
	case string(TagModeAll):
		return TagModeAll, nil
	default:
		return "", fmt.Errorf("%w: unknown tag mode %q", domain.ErrInvalidCriteria, s)
	}
}

// Criteria is one filter call's input (pure value, no lifecycle).
// A zero dimension is skipped: it constrains nothing.
type Criteria struct {
	query         string
	tags          []string
	tagMode       TagMode
	types         []string
	dateFrom      string
	dateTo        string
	minConfidence document.Confidence
	folderPrefix  string
}

// New validates and creates a Criteria.
// dateFrom/dateTo are compared lexically against raw manifest date values,
// so a reversed range is rejected here rather than silently matching nothing.
func New(
	query string, tags []string, tagMode TagMode, types []string,
	dateFrom, dateTo string, minConfidence document.Confidence, folderPrefix string,
) (Criteria, error) {
	if tagMode == "" {
		tagMode = TagModeAny
	}
	if tagMode != TagModeAny && tagMode != TagModeAll {
		return Criteria{}, fmt.Errorf("%w: unknown tag mode %q", domain.ErrInvalidCriteria, tagMode)
	}
	if dateFrom != "" && dateTo != "" && dateFrom > dateTo {
		return Criteria{}, fmt.Errorf("%w: date range %q..%q is reversed", domain.ErrInvalidCriteria, dateFrom, dateTo)
	}
	if minConfidence < document.ConfidenceNone || minConfidence > document.ConfidenceHigh {
		return Criteria{}, fmt.Errorf("%w: confidence floor out of range: %d", domain.ErrInvalidCriteria, minConfidence)
	}
	return Criteria{
		query:         query,
		tags:          cloneStrings(tags),
		tagMode:       tagMode,
		types:         cloneStrings(types),
		dateFrom:      dateFrom,
		dateTo:        dateTo,
		minConfidence: minConfidence,
		folderPrefix:  folderPrefix,
	}, nil
}

// Query returns the free-text query.
func (c Criteria) Query() string { return c.query }

// Tags returns the selected tags.
func (c Criteria) Tags() []string { return c.tags }

// TagMode returns the tag predicate mode.
func (c Criteria) TagMode() TagMode { return c.tagMode }

// Types returns the selected document types.
func (c Criteria) Types() []string { return c.types }

// DateFrom returns the inclusive lower date bound (raw value form).
func (c Criteria) DateFrom() string { return c.dateFrom }

// DateTo returns the inclusive upper date bound (raw value form).
func (c Criteria) DateTo() string { return c.dateTo }

// MinConfidence returns the date-confidence floor.
func (c Criteria) MinConfidence() document.Confidence { return c.minConfidence }

// FolderPrefix returns the folder path prefix constraint.
func (c Criteria) FolderPrefix() string { return c.folderPrefix }

// IsEmpty reports whether no dimension constrains anything.
func (c Criteria) IsEmpty() bool {
	return c.query == "" && len(c.tags) == 0 && len(c.types) == 0 &&
		c.dateFrom == "" && c.dateTo == "" &&
		c.minConfidence == document.ConfidenceNone && c.folderPrefix == ""
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
