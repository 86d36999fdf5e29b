// Package server is a local preview server for a built site: it serves the
// static files, the search index and a search API, and fills in share
// links on post pages the way the site's scripts would in a browser.
package server

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nikbrunner/postlist/internal/dom"
	"github.com/nikbrunner/postlist/internal/model"
	"github.com/nikbrunner/postlist/internal/search"
	"github.com/nikbrunner/postlist/internal/share"
	"github.com/nikbrunner/postlist/internal/source"
	"github.com/nikbrunner/postlist/internal/storage"
)

// Config holds server configuration.
type Config struct {
	Addr     string
	SiteDir  string
	AllowAll bool // allow all CORS origins
	Fuzzy    search.FuzzyOptions
}

// IndexLoader returns the current entry collection.
type IndexLoader func() (*model.Store, error)

// Server serves a site directory and its search index.
type Server struct {
	cfg        Config
	loadIndex  IndexLoader
	site       fs.FS
	files      http.Handler
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server. The index is reloaded on every request so a
// rebuilt index is picked up without a restart.
func New(cfg Config, loadIndex IndexLoader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	site := os.DirFS(cfg.SiteDir)
	s := &Server{
		cfg:       cfg,
		loadIndex: loadIndex,
		site:      site,
		files:     http.FileServerFS(site),
		logger:    logger,
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get(source.IndexPath, s.handleIndex)
	r.Get("/api/search", s.handleSearch)
	r.Get("/*", s.handleSite)

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("preview server listening", "addr", s.cfg.Addr, "site", s.cfg.SiteDir)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleIndex serves the index document. With ?q= the entries are
// filtered by title the same way the post list filter does.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	store, ok := s.index(w)
	if !ok {
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		store = model.NewStore(search.Substring(q, store.All()))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := storage.EncodeIndex(w, store); err != nil {
		s.logger.Error("encode index", "err", err)
	}
}

type searchHit struct {
	Title string  `json:"title"`
	Href  string  `json:"href"`
	Field string  `json:"field"`
	Score int     `json:"score"`
	Match float64 `json:"similarity"`
}

// handleSearch runs a ranked fuzzy search over the index.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	store, ok := s.index(w)
	if !ok {
		return
	}

	opts := s.cfg.Fuzzy
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		opts.Limit = limit
	}

	results := search.NewFuzzyIndex(store.All(), opts).Search(r.URL.Query().Get("q"))
	hits := make([]searchHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, searchHit{
			Title: res.Entry.Title,
			Href:  res.Entry.Href,
			Field: res.Field.String(),
			Score: res.Score,
			Match: res.Similarity,
		})
	}
	writeJSON(w, http.StatusOK, hits)
}

// handleSite serves static files. HTML pages get their share buttons
// pointed at the page's own URL.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(r.URL.Path, "/") {
		name = path.Join(name, "index.html")
	}
	if path.Ext(name) != ".html" {
		s.files.ServeHTTP(w, r)
		return
	}

	f, err := s.site.Open(strings.TrimPrefix(name, "/"))
	if err != nil {
		s.files.ServeHTTP(w, r)
		return
	}
	defer func() { _ = f.Close() }()

	doc, err := dom.Parse(f)
	if err != nil {
		s.logger.Warn("unparseable page, serving as is", "path", name, "err", err)
		s.files.ServeHTTP(w, r)
		return
	}

	if n := share.Apply(doc, pageURL(r)); n > 0 {
		s.logger.Debug("share links applied", "path", name, "buttons", n)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dom.Render(w, doc); err != nil {
		s.logger.Error("render page", "path", name, "err", err)
	}
}

func (s *Server) index(w http.ResponseWriter) (*model.Store, bool) {
	if s.loadIndex == nil {
		return model.NewStore(nil), true
	}
	store, err := s.loadIndex()
	if err != nil {
		s.logger.Error("load index", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search index unavailable"})
		return nil, false
	}
	return store, true
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func pageURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
