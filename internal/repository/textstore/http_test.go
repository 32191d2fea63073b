package textstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glp-archive/scribe/internal/domain"
)

func newTestFetcher(baseURL string, objectStorage bool) *Fetcher {
	return NewFetcher(Config{
		BaseURL:       baseURL,
		Timeout:       5 * time.Second,
		MaxBytes:      1 << 20,
		CacheTTL:      time.Minute,
		ObjectStorage: objectStorage,
	})
}

func TestFetcher_Text(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/box1/f1/a.txt" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		_, _ = w.Write([]byte("Dear Mother,"))
	}))
	defer srv.Close()

	f := newTestFetcher(srv.URL, false)
	got, err := f.Text(context.Background(), "box1/f1/a.txt")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "Dear Mother," {
		t.Errorf("body: got %q", got)
	}
}

func TestFetcher_CachesSuccessfulFetches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("body"))
	}))
	defer srv.Close()

	f := newTestFetcher(srv.URL, false)
	for i := 0; i < 3; i++ {
		if _, err := f.Text(context.Background(), "a.txt"); err != nil {
			t.Fatalf("Text #%d: %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("backend hits: got %d, want 1", got)
	}
}

func TestFetcher_FailuresNotCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	f := newTestFetcher(srv.URL, false)

	_, err := f.Text(context.Background(), "a.txt")
	if !errors.Is(err, domain.ErrTextUnavailable) {
		t.Fatalf("expected ErrTextUnavailable, got %v", err)
	}

	got, err := f.Text(context.Background(), "a.txt")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got != "recovered" {
		t.Errorf("retry body: got %q", got)
	}
}

func TestFetcher_Unreachable(t *testing.T) {
	f := NewFetcher(Config{
		BaseURL:  "http://127.0.0.1:1",
		Timeout:  500 * time.Millisecond,
		MaxBytes: 1 << 20,
		CacheTTL: time.Minute,
	})

	_, err := f.Text(context.Background(), "a.txt")
	if !errors.Is(err, domain.ErrTextUnavailable) {
		t.Fatalf("expected ErrTextUnavailable, got %v", err)
	}
}

func TestTextURL(t *testing.T) {
	tests := []struct {
		name          string
		objectStorage bool
		path          string
		want          string
	}{
		{
			name: "path segments escaped individually",
			path: "box1/folder one/a b.txt",
			want: "http://texts/box1/folder%20one/a%20b.txt",
		},
		{
			name:          "object storage escapes the whole path as one segment",
			objectStorage: true,
			path:          "box1/folder one/a.txt",
			want:          "http://texts/box1%2Ffolder%20one%2Fa.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFetcher("http://texts", tt.objectStorage)
			if got := f.textURL(tt.path); got != tt.want {
				t.Errorf("textURL(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
