package manifest

import (
	"github.com/glp-archive/scribe/internal/domain/document"
	"github.com/glp-archive/scribe/internal/usecase/catalog"
)

// Wire shapes of the manifest JSON. The store provider uses the flattened
// form (recordDTO plus a folder field); the http provider uses the nested
// {metadata, folders} form.

type manifestDTO struct {
	Metadata metadataDTO          `json:"metadata"`
	Folders  map[string]folderDTO `json:"folders"`
}

// metadataDTO carries precomputed aggregate statistics. The loader ignores
// them: every aggregate is rederived from the records themselves.
type metadataDTO struct {
	TotalDocuments int            `json:"total_documents"`
	DateRange      map[string]any `json:"date_range"`
	Tags           map[string]int `json:"tags"`
	Types          map[string]int `json:"types"`
}

type folderDTO struct {
	Documents     []recordDTO `json:"documents"`
	DocumentCount int         `json:"document_count"`
}

type recordDTO struct {
	FilePath string      `json:"file_path"`
	FileName string      `json:"file_name"`
	Date     dateDTO     `json:"date"`
	Category categoryDTO `json:"category"`
	Summary  string      `json:"summary"`
}

type dateDTO struct {
	Value      string `json:"value"`
	Source     string `json:"source"`
	Confidence string `json:"confidence"`
	Period     string `json:"period"`
}

type categoryDTO struct {
	Tags       []string `json:"tags"`
	Type       string   `json:"type"`
	Confidence string   `json:"confidence"`
}

// storeRecordDTO is the flattened per-document record held by the document
// store, field-compatible with recordDTO plus its folder path.
type storeRecordDTO struct {
	recordDTO
	Folder string `json:"folder"`
}

func toEntry(folder string, rec recordDTO) catalog.Entry {
	return catalog.Entry{
		Folder: folder,
		Record: document.RawRecord{
			FilePath: rec.FilePath,
			FileName: rec.FileName,
			Date: document.DateBlock{
				Value:      rec.Date.Value,
				Source:     rec.Date.Source,
				Confidence: document.ParseConfidence(rec.Date.Confidence),
				Period:     rec.Date.Period,
			},
			Category: document.CategoryBlock{
				Tags:       rec.Category.Tags,
				Type:       rec.Category.Type,
				Confidence: document.ParseConfidence(rec.Category.Confidence),
			},
			Summary: rec.Summary,
		},
	}
}
