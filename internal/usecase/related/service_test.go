package related

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/glp-archive/scribe/internal/domain"
	"github.com/glp-archive/scribe/internal/domain/document"
	"github.com/glp-archive/scribe/internal/usecase/catalog"
)

func makeDoc(path string, tags ...string) document.Document {
	return document.Reconstruct(
		path, "box1", path, 0,
		document.DateBlock{},
		document.CategoryBlock{Tags: tags},
		"",
	)
}

func paths(docs []document.Document) []string {
	out := make([]string, len(docs))
	for i := range docs {
		out[i] = docs[i].Path()
	}
	return out
}

func TestRank_OrdersByOverlapWithStableTies(t *testing.T) {
	subject := makeDoc("subject", "faith", "family", "mission")
	docs := []document.Document{
		subject,
		makeDoc("one-shared", "faith"),
		makeDoc("two-shared-a", "faith", "family"),
		makeDoc("none-shared", "travel"),
		makeDoc("two-shared-b", "family", "mission"),
		makeDoc("three-shared", "faith", "family", "mission"),
	}

	got := Rank(subject, docs, 10)
	want := []string{"three-shared", "two-shared-a", "two-shared-b", "one-shared"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", paths(got), want)
	}
	for i := range want {
		if got[i].Path() != want[i] {
			t.Fatalf("order: got %v, want %v", paths(got), want)
		}
	}
}

func TestRank_Irreflexive(t *testing.T) {
	subject := makeDoc("subject", "faith")
	docs := []document.Document{subject, makeDoc("other", "faith")}

	for _, d := range Rank(subject, docs, 10) {
		if d.Path() == "subject" {
			t.Fatal("subject ranked as related to itself")
		}
	}
}

func TestRank_TagsCaseInsensitive(t *testing.T) {
	subject := makeDoc("subject", "Faith")
	docs := []document.Document{subject, makeDoc("other", "FAITH")}

	got := Rank(subject, docs, 10)
	if len(got) != 1 {
		t.Fatalf("expected 1 related document, got %d", len(got))
	}
}

func TestRank_Limit(t *testing.T) {
	subject := makeDoc("subject", "faith")
	docs := []document.Document{subject}
	for _, p := range []string{"a", "b", "c", "d"} {
		docs = append(docs, makeDoc(p, "faith"))
	}

	got := Rank(subject, docs, 2)
	if len(got) != 2 {
		t.Fatalf("limit: got %d documents, want 2", len(got))
	}
}

func TestRank_UntaggedSubject(t *testing.T) {
	subject := makeDoc("subject")
	docs := []document.Document{subject, makeDoc("other", "faith")}

	if got := Rank(subject, docs, 10); len(got) != 0 {
		t.Fatalf("untagged subject: got %v, want none", paths(got))
	}
}

// --- Service ---

type stubLoader struct{ entries []catalog.Entry }

func (s *stubLoader) Load(_ context.Context) ([]catalog.Entry, error) { return s.entries, nil }

func loadedCatalog(t *testing.T, entries []catalog.Entry) *catalog.Service {
	t.Helper()
	svc := catalog.New(&stubLoader{entries: entries}, "", zap.NewNop())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("catalog load: %v", err)
	}
	return svc
}

func TestFor_UnknownPath(t *testing.T) {
	cat := loadedCatalog(t, []catalog.Entry{
		{Folder: "box1", Record: document.RawRecord{FilePath: "box1/a.txt"}},
	})
	svc := New(cat, 0)

	_, err := svc.For(context.Background(), "box1/missing.txt", 0)
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestFor_DefaultLimit(t *testing.T) {
	entries := []catalog.Entry{
		{Folder: "box1", Record: document.RawRecord{
			FilePath: "box1/subject.txt",
			Category: document.CategoryBlock{Tags: []string{"faith"}},
		}},
	}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		entries = append(entries, catalog.Entry{Folder: "box1", Record: document.RawRecord{
			FilePath: "box1/" + name + ".txt",
			Category: document.CategoryBlock{Tags: []string{"faith"}},
		}})
	}
	svc := New(loadedCatalog(t, entries), 0)

	got, err := svc.For(context.Background(), "box1/subject.txt", 0)
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if len(got) != DefaultLimit {
		t.Fatalf("default limit: got %d, want %d", len(got), DefaultLimit)
	}
}
