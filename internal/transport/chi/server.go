package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/glp-archive/scribe/internal/domain"
	"github.com/glp-archive/scribe/internal/domain/document"
	dsearch "github.com/glp-archive/scribe/internal/domain/search"
	"github.com/glp-archive/scribe/internal/metrics"
	"github.com/glp-archive/scribe/internal/render"
	"github.com/glp-archive/scribe/internal/repository/uistate"
	"github.com/glp-archive/scribe/internal/usecase/catalog"
	healthuc "github.com/glp-archive/scribe/internal/usecase/health"
	indexuc "github.com/glp-archive/scribe/internal/usecase/index"
	relateduc "github.com/glp-archive/scribe/internal/usecase/related"
	searchuc "github.com/glp-archive/scribe/internal/usecase/search"
)

// TextFetcher retrieves a document's raw text by cleaned path.
type TextFetcher interface {
	Text(ctx context.Context, path string) (string, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server exposes the archive over HTTP.
type Server struct {
	catalog       *catalog.Service
	index         *indexuc.Service
	search        *searchuc.Service
	related       *relateduc.Service
	health        *healthuc.Service
	renderer      *render.Renderer
	texts         TextFetcher
	uiState       uistate.Store
	provider      string // manifest provider name, for metrics
	wrapWidth     int    // default wrap width for text rendering
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	cat *catalog.Service,
	index *indexuc.Service,
	search *searchuc.Service,
	related *relateduc.Service,
	health *healthuc.Service,
	renderer *render.Renderer,
	texts TextFetcher,
	uiState uistate.Store,
	provider string,
	wrapWidth int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalog:   cat,
		index:     index,
		search:    search,
		related:   related,
		health:    health,
		renderer:  renderer,
		texts:     texts,
		uiState:   uiState,
		provider:  provider,
		wrapWidth: wrapWidth,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrManifestUnavailable, http.StatusServiceUnavailable, "manifest_unavailable"),
		sentinelHandler(domain.ErrManifestInvalid, http.StatusBadGateway, "manifest_invalid"),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, "document_not_found"),
		sentinelHandler(domain.ErrTextUnavailable, http.StatusBadGateway, "text_unavailable"),
		sentinelHandler(domain.ErrStateNotFound, http.StatusNotFound, "state_not_found"),
		sentinelHandler(domain.ErrInvalidCriteria, http.StatusBadRequest, "validation_failed"),
	}
	return s
}

// Mount registers all routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/api/health", s.Health)
	r.Get("/api/archive/stats", s.Stats)
	r.Get("/api/archive/tags", s.Tags)
	r.Get("/api/archive/types", s.Types)
	r.Get("/api/archive/folders", s.Folders)
	r.Get("/api/archive/boxes", s.Boxes)
	r.Get("/api/archive/documents", s.Documents)
	r.Get("/api/archive/documents/*", s.DocumentByPath)
	r.Get("/api/archive/related/*", s.Related)
	r.Get("/api/archive/text/*", s.Text)
	r.Get("/api/ui/state/{key}", s.GetUIState)
	r.Put("/api/ui/state/{key}", s.PutUIState)
	r.Post("/api/admin/reload", s.Reload)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// Health handles GET /api/health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.health.Check(r.Context()))
}

// Stats handles GET /api/archive/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.index.Summary(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Tags handles GET /api/archive/tags.
func (s *Server) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.index.Tags(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// Types handles GET /api/archive/types.
func (s *Server) Types(w http.ResponseWriter, r *http.Request) {
	types, err := s.index.Types(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"types": types})
}

// Folders handles GET /api/archive/folders.
func (s *Server) Folders(w http.ResponseWriter, r *http.Request) {
	tree, err := s.index.Tree(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": tree})
}

// boxJSON is one top-level archive box.
type boxJSON struct {
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
}

// Boxes handles GET /api/archive/boxes: the top-level folders with their
// recursive document counts. Kept from the original archive API.
func (s *Server) Boxes(w http.ResponseWriter, r *http.Request) {
	tree, err := s.index.Tree(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	boxes := make([]boxJSON, 0, len(tree))
	for _, n := range tree {
		boxes = append(boxes, boxJSON{Name: n.Name, DocumentCount: n.SubtreeCount()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"boxes": boxes})
}

// Documents handles GET /api/archive/documents with filter query params.
func (s *Server) Documents(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	docs, err := s.search.Filter(r.Context(), criteria)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]documentJSON, len(docs))
	for i := range docs {
		items[i] = documentToJSON(&docs[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": items, "total": len(items)})
}

// DocumentByPath handles GET /api/archive/documents/{path...}.
func (s *Server) DocumentByPath(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	snap, err := s.catalog.Require()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	doc, ok := snap.Get(path)
	if !ok {
		writeError(w, http.StatusNotFound, "document_not_found", "no document at "+path)
		return
	}
	writeJSON(w, http.StatusOK, documentToJSON(&doc))
}

// Related handles GET /api/archive/related/{path...}.
func (s *Server) Related(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	docs, err := s.related.For(r.Context(), path, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]documentJSON, len(docs))
	for i := range docs {
		items[i] = documentToJSON(&docs[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"related": items})
}

// Text handles GET /api/archive/text/{path...}. The document must exist in
// the current snapshot; its raw text is fetched and rendered.
func (s *Server) Text(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	snap, err := s.catalog.Require()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if _, ok := snap.Get(path); !ok {
		writeError(w, http.StatusNotFound, "document_not_found", "no document at "+path)
		return
	}

	format := render.FormatText
	switch r.URL.Query().Get("format") {
	case "", "text":
	case "html":
		format = render.FormatHTML
	default:
		writeError(w, http.StatusBadRequest, "validation_failed", "format must be text or html")
		return
	}

	wrap := s.wrapWidth
	if v := r.URL.Query().Get("wrap"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "wrap must be a non-negative integer")
			return
		}
		wrap = parsed
	}

	raw, err := s.texts.Text(r.Context(), path)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	rendered := s.renderer.Render(raw, render.Options{Format: format, WrapWidth: wrap})
	writeJSON(w, http.StatusOK, map[string]any{
		"path":    path,
		"format":  string(format),
		"content": rendered,
	})
}

// GetUIState handles GET /api/ui/state/{key}.
func (s *Server) GetUIState(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	values, err := s.uiState.Get(r.Context(), key)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "values": values})
}

// PutUIState handles PUT /api/ui/state/{key}.
func (s *Server) PutUIState(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var body struct {
		Values []string `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if err := s.uiState.Put(r.Context(), key, body.Values); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "values": body.Values})
}

// Reload handles POST /api/admin/reload: re-fetch the manifest and install
// a fresh snapshot.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Load(r.Context()); err != nil {
		metrics.ManifestLoadsTotal.WithLabelValues(s.provider, "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.ManifestLoadsTotal.WithLabelValues(s.provider, "ok").Inc()

	snap, err := s.catalog.Require()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	metrics.ManifestDocuments.Set(float64(snap.Len()))
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "documents": snap.Len()})
}

// --- request parsing ---

// criteriaFromQuery builds search criteria from URL parameters. Multi-value
// dimensions accept comma-separated lists.
func criteriaFromQuery(r *http.Request) (dsearch.Criteria, error) {
	q := r.URL.Query()

	tagMode, err := dsearch.ParseTagMode(q.Get("tag_mode"))
	if err != nil {
		return dsearch.Criteria{}, err
	}

	minConf := document.ConfidenceNone
	if v := q.Get("min_confidence"); v != "" {
		parsed, err := parseConfidence(v)
		if err != nil {
			return dsearch.Criteria{}, err
		}
		minConf = parsed
	}

	return dsearch.New(
		q.Get("q"),
		splitList(q.Get("tags")),
		tagMode,
		splitList(q.Get("types")),
		q.Get("from"),
		q.Get("to"),
		minConf,
		q.Get("folder"),
	)
}

// parseConfidence is strict, unlike document.ParseConfidence: an unknown
// label is a client error rather than a silent ConfidenceNone.
func parseConfidence(s string) (document.Confidence, error) {
	switch strings.ToLower(s) {
	case "none":
		return document.ConfidenceNone, nil
	case "low":
		return document.ConfidenceLow, nil
	case "medium":
		return document.ConfidenceMedium, nil
	case "high":
		return document.ConfidenceHigh, nil
	default:
		return 0, errors.New("min_confidence must be one of none, low, medium, high")
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- response shapes ---

type documentJSON struct {
	Path               string   `json:"path"`
	Folder             string   `json:"folder"`
	FileName           string   `json:"file_name"`
	Year               int      `json:"year,omitempty"`
	Date               string   `json:"date,omitempty"`
	DateSource         string   `json:"date_source,omitempty"`
	DatePeriod         string   `json:"date_period,omitempty"`
	DateConfidence     string   `json:"date_confidence"`
	Tags               []string `json:"tags"`
	Type               string   `json:"type,omitempty"`
	CategoryConfidence string   `json:"category_confidence"`
	Summary            string   `json:"summary,omitempty"`
}

func documentToJSON(d *document.Document) documentJSON {
	tags := d.Tags()
	if tags == nil {
		tags = []string{}
	}
	return documentJSON{
		Path:               d.Path(),
		Folder:             d.Folder(),
		FileName:           d.FileName(),
		Year:               d.Year(),
		Date:               d.RawDate(),
		DateSource:         d.DateSource(),
		DatePeriod:         d.DatePeriod(),
		DateConfidence:     d.DateConfidence().String(),
		Tags:               tags,
		Type:               d.Type(),
		CategoryConfidence: d.CategoryConfidence().String(),
		Summary:            d.Summary(),
	}
}

// --- error plumbing ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := err.Error()
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
