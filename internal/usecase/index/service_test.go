package index

import (
	"context"
	"errors"
	"testing"

	"github.com/glp-archive/scribe/internal/domain"
	"github.com/glp-archive/scribe/internal/domain/document"
	"github.com/glp-archive/scribe/internal/usecase/catalog"
)

// --- Mocks ---

type mockSource struct {
	snap *catalog.Snapshot
	err  error
}

func (m *mockSource) Require() (*catalog.Snapshot, error) { return m.snap, m.err }

func makeDoc(path, folder, date, docType string, tags ...string) document.Document {
	return document.Reconstruct(
		path, folder, path, catalog.ExtractYear(date),
		document.DateBlock{Value: date},
		document.CategoryBlock{Tags: tags, Type: docType},
		"",
	)
}

// --- Tests ---

func TestTagTable_CaseInsensitiveMerge(t *testing.T) {
	docs := []document.Document{
		makeDoc("a", "f", "", "", "LDS", "family"),
		makeDoc("b", "f", "", "", "lds", "Family"),
		makeDoc("c", "f", "", "", "Lds"),
	}

	table := TagTable(docs)
	if len(table) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table))
	}
	if table[0].Tag != "LDS" || table[0].Count != 3 {
		t.Errorf("row 0: got {%s %d}, want {LDS 3}", table[0].Tag, table[0].Count)
	}
	if table[1].Tag != "Family" || table[1].Count != 2 {
		t.Errorf("row 1: got {%s %d}, want {Family 2}", table[1].Tag, table[1].Count)
	}
}

func TestTagTable_LabelTieKeepsFirstSeen(t *testing.T) {
	// "Travel" and "traveL" carry the same uppercase count; the earlier
	// variant keeps the label.
	docs := []document.Document{
		makeDoc("a", "f", "", "", "Travel"),
		makeDoc("b", "f", "", "", "traveL"),
	}

	table := TagTable(docs)
	if len(table) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table))
	}
	if table[0].Tag != "Travel" {
		t.Errorf("label: got %q, want %q", table[0].Tag, "Travel")
	}
	if table[0].Count != 2 {
		t.Errorf("count: got %d, want 2", table[0].Count)
	}
}

func TestTagTable_OrderAndTies(t *testing.T) {
	docs := []document.Document{
		makeDoc("a", "f", "", "", "faith", "travel"),
		makeDoc("b", "f", "", "", "faith", "family"),
		makeDoc("c", "f", "", "", "family"),
		makeDoc("d", "f", "", "", "faith"),
	}

	table := TagTable(docs)
	want := []TagCount{{"faith", 3}, {"family", 2}, {"travel", 1}}
	if len(table) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(table))
	}
	for i := range want {
		if table[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, table[i], want[i])
		}
	}
}

func TestTagTable_SkipsEmptyTags(t *testing.T) {
	docs := []document.Document{makeDoc("a", "f", "", "", "", "faith")}
	table := TagTable(docs)
	if len(table) != 1 || table[0].Tag != "faith" {
		t.Fatalf("expected single faith row, got %+v", table)
	}
}

func TestTypeTable(t *testing.T) {
	docs := []document.Document{
		makeDoc("a", "f", "", "letter"),
		makeDoc("b", "f", "", "sermon"),
		makeDoc("c", "f", "", "letter"),
		makeDoc("d", "f", "", ""),
	}

	table := TypeTable(docs)
	want := []TypeCount{{"letter", 2}, {"sermon", 1}}
	if len(table) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(table))
	}
	for i := range want {
		if table[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, table[i], want[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	docs := []document.Document{
		makeDoc("a", "box1/f1", "1944", "letter"),
		makeDoc("b", "box1/f1", "1961-03-12", "letter"),
		makeDoc("c", "box1/f2", "", "sermon"),
		makeDoc("d", "box2", "no date known", "sermon"),
	}

	got := Summarize(docs)
	if got.TotalDocuments != 4 {
		t.Errorf("total: got %d, want 4", got.TotalDocuments)
	}
	if got.FolderCount != 3 {
		t.Errorf("folders: got %d, want 3", got.FolderCount)
	}
	if got.DateCoveragePct != 50 {
		t.Errorf("coverage: got %v, want 50", got.DateCoveragePct)
	}
	if got.EarliestYear != 1944 || got.LatestYear != 1961 {
		t.Errorf("year span: got %d..%d, want 1944..1961", got.EarliestYear, got.LatestYear)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)
	if got.TotalDocuments != 0 || got.DateCoveragePct != 0 {
		t.Errorf("empty collection: got %+v", got)
	}
}

func TestService_NoSnapshot(t *testing.T) {
	svc := New(&mockSource{err: domain.ErrManifestUnavailable})

	if _, err := svc.Summary(context.Background()); !errors.Is(err, domain.ErrManifestUnavailable) {
		t.Errorf("Summary: expected ErrManifestUnavailable, got %v", err)
	}
	if _, err := svc.Tags(context.Background()); !errors.Is(err, domain.ErrManifestUnavailable) {
		t.Errorf("Tags: expected ErrManifestUnavailable, got %v", err)
	}
	if _, err := svc.Tree(context.Background()); !errors.Is(err, domain.ErrManifestUnavailable) {
		t.Errorf("Tree: expected ErrManifestUnavailable, got %v", err)
	}
}
