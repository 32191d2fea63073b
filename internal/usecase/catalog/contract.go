package catalog

import (
	"context"

	"github.com/glp-archive/scribe/internal/domain/document"
)

// Entry is one manifest record together with its source folder path.
type Entry struct {
	Folder string
	Record document.RawRecord
}

// Loader fetches the full manifest from its backing source. Implementations
// return either the whole manifest or an error, never a partial result.
type Loader interface {
	Load(ctx context.Context) ([]Entry, error)
}
