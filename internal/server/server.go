// Package server provides the HTTP server and handlers.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cmarchi/cartaz/internal/catalog"
	"github.com/cmarchi/cartaz/internal/dates"
	"github.com/cmarchi/cartaz/internal/eventdoc"
	"github.com/cmarchi/cartaz/internal/filter"
	"github.com/cmarchi/cartaz/internal/logging"
	"github.com/cmarchi/cartaz/internal/model"
	"github.com/cmarchi/cartaz/internal/pager"
	"github.com/cmarchi/cartaz/internal/source"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Server is the main HTTP server. It owns the single pagination view:
// the catalog has one logical editing actor, so view state lives here
// and every mutation is serialized through the store.
type Server struct {
	store     *catalog.Store
	loader    *source.Loader
	router    chi.Router
	templates *template.Template
	pageSize  int

	viewMu sync.Mutex
	view   pager.View
}

// New creates a new server. loader may be nil when no source is
// configured; the refresh endpoint then refuses.
func New(store *catalog.Store, loader *source.Loader, pageSize int) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"displayDate": dates.ToDisplay,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if pageSize < 1 {
		pageSize = pager.DefaultPageSize
	}

	s := &Server{
		store:     store,
		loader:    loader,
		templates: tmpl,
		pageSize:  pageSize,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Serve static files.
	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Pages.
	r.Get("/", s.handleHome)

	// API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/events", s.handleListEvents)
		r.Post("/events", s.handleAddEvent)
		r.Put("/events/{index}", s.handleUpdateEvent)
		r.Delete("/events/{index}", s.handleRemoveEvent)
		r.Post("/import", s.handleImport)
		r.Get("/export", s.handleExport)
		r.Post("/refresh", s.handleRefresh)
	})

	s.router = r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server.
func (s *Server) Start(addr string) error {
	logging.Info().Str("addr", addr).Msg("server starting")
	return http.ListenAndServe(addr, s.router)
}

// requestLogger is a chi middleware logging one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// --- Filtering and pagination ---

// criteriaFromQuery reads the filter parameters. From/To consume plain
// ISO dates; anything unparseable leaves the bound unset.
func criteriaFromQuery(q url.Values) filter.Criteria {
	c := filter.Criteria{
		Query:  q.Get("q"),
		Tags:   q.Get("tags"),
		Preset: filter.Preset(q.Get("preset")),
	}
	if c.Preset == "" {
		c.Preset = filter.PresetAll
	}
	if day, ok := dates.ParseLoose(q.Get("from")); ok {
		c.From = day
	}
	if day, ok := dates.ParseLoose(q.Get("to")); ok {
		c.To = day
	}
	return c
}

// page holds one resolved filtered-and-paginated result.
type page struct {
	Criteria filter.Criteria
	Events   []model.Event
	Total    int
	Shown    int
	Page     int
	PageSize int
}

// resolvePage applies the filter to the current catalog and resolves
// the pagination window. The view resets to page one whenever the
// criteria, the page size, or the catalog changed since the last
// request; only then is the requested page honored.
func (s *Server) resolvePage(q url.Values) page {
	c := criteriaFromQuery(q)
	pageSize := intParam(q, "page_size", s.pageSize)
	requested := intParam(q, "page", 1)

	s.viewMu.Lock()
	defer s.viewMu.Unlock()

	snapshot, revision := s.store.SnapshotWithRevision()
	filtered := filter.Apply(snapshot, c)
	effective := s.view.Resolve(c, pageSize, revision, requested)
	shown := pager.Visible(len(filtered), effective, pageSize)

	return page{
		Criteria: c,
		Events:   filtered[:shown],
		Total:    len(filtered),
		Shown:    shown,
		Page:     effective,
		PageSize: pageSize,
	}
}

func intParam(q url.Values, name string, fallback int) int {
	if v := q.Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// --- Page handlers ---

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	p := s.resolvePage(r.URL.Query())
	data := map[string]interface{}{
		"Title":    "Eventos Fundação Cultural",
		"Events":   p.Events,
		"Total":    p.Total,
		"Shown":    p.Shown,
		"NextPage": p.Page + 1,
		"HasMore":  p.Shown < p.Total,
		"PageSize": p.PageSize,
		"Query":    r.URL.Query().Get("q"),
		"Tags":     r.URL.Query().Get("tags"),
		"Preset":   string(p.Criteria.Preset),
		"From":     r.URL.Query().Get("from"),
		"To":       r.URL.Query().Get("to"),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "home.html", data); err != nil {
		logging.Error().Err(err).Msg("template render failed")
		http.Error(w, "Render error", http.StatusInternalServerError)
	}
}

// --- API handlers ---

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	p := s.resolvePage(r.URL.Query())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":     p.Total,
		"shown":     p.Shown,
		"page":      p.Page,
		"page_size": p.PageSize,
		"events":    p.Events,
	})
}

// draft is the record shape submitted by the editing UI. The date
// arrives either masked (dateBR, as typed) or already canonical (date).
type draft struct {
	Title       string `json:"title"`
	DateBR      string `json:"dateBR"`
	Date        string `json:"date"`
	Venue       string `json:"venue"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	PostURL     string `json:"instagramUrl"`
	Shortcode   string `json:"shortcode"`
}

// event converts the draft into a stored record. The masked date runs
// through the display mask and then canonicalizes; a date that fails to
// canonicalize is stored blank rather than rejected.
func (d draft) event() model.Event {
	date := strings.TrimSpace(d.Date)
	if dates.ToDisplay(date) == "" {
		// Not canonical; fall back to whichever masked input we got.
		if br := strings.TrimSpace(d.DateBR); br != "" {
			date = dates.ToCanonical(dates.Mask(br))
		} else {
			date = dates.ToCanonical(date)
		}
	}
	return model.Event{
		Title:       strings.TrimSpace(d.Title),
		Date:        date,
		Venue:       strings.TrimSpace(d.Venue),
		Description: strings.TrimSpace(d.Description),
		Tags:        strings.TrimSpace(d.Tags),
		PostURL:     strings.TrimSpace(d.PostURL),
		Shortcode:   strings.TrimSpace(d.Shortcode),
	}
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var d draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	s.store.Add(d.event())
	writeJSON(w, http.StatusCreated, map[string]interface{}{"status": "ok", "total": s.store.Len()})
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}
	var d draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := s.store.Update(index, d.event()); err != nil {
		if errors.Is(err, catalog.ErrIndexOutOfRange) {
			http.Error(w, "No such event", http.StatusNotFound)
			return
		}
		http.Error(w, "Update failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

func (s *Server) handleRemoveEvent(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}
	if err := s.store.Remove(index); err != nil {
		if errors.Is(err, catalog.ErrIndexOutOfRange) {
			http.Error(w, "No such event", http.StatusNotFound)
			return
		}
		http.Error(w, "Remove failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "total": s.store.Len()})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("document")
	if err != nil {
		http.Error(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	events, err := eventdoc.Parse(file)
	if err != nil {
		// The store stays exactly as it was; a bad import is never a
		// partial merge.
		http.Error(w, fmt.Sprintf("Failed to parse document: %v", err), http.StatusBadRequest)
		return
	}
	s.store.ReplaceAll(events)
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "imported": len(events)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := eventdoc.Export(s.store.Snapshot())
	if err != nil {
		http.Error(w, "Failed to export", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=events.json")
	w.Write(data)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.loader == nil {
		http.Error(w, "No source configured", http.StatusConflict)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	n, err := s.loader.Load(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Refresh error: %v", err), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "events": n})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error().Err(err).Msg("encode response failed")
	}
}
