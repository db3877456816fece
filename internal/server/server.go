// Package server provides the HTTP API over the article store.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bryan-buckman/newsdesk/internal/database"
	"github.com/bryan-buckman/newsdesk/internal/importer"
	"github.com/bryan-buckman/newsdesk/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxUploadBytes bounds multipart CSV uploads.
const maxUploadBytes = 32 << 20

// Options configures a Server.
type Options struct {
	// ImportEncoding is used for uploads that do not name an encoding.
	ImportEncoding string
}

// Server is the main HTTP server.
type Server struct {
	db       database.Store
	importer *importer.Importer
	opts     Options
	log      *slog.Logger
	router   chi.Router
}

// New creates a new server.
func New(db database.Store, log *slog.Logger, opts Options) *Server {
	if opts.ImportEncoding == "" {
		opts.ImportEncoding = "utf-8"
	}
	s := &Server{
		db:       db,
		importer: importer.New(db, log),
		opts:     opts,
		log:      log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/articles", s.handleListArticles)
		r.Post("/articles", s.handleCreateArticle)
		r.Get("/articles/{articleID}/reports", s.handleArticleReports)

		r.Get("/reports", s.handleListReports)
		r.Post("/reports", s.handleCreateReport)
		r.Get("/reports/{reportID}/articles", s.handleReportArticles)
		r.Post("/reports/{reportID}/articles/{articleID}", s.handleLink)

		r.Post("/import", s.handleImport)
	})

	s.router = r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", addr, "database", s.db.DatabaseType())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// --- Read Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.db.GetAllArticles()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.db.GetAllReports()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleReportArticles(w http.ResponseWriter, r *http.Request) {
	reportID, ok := idParam(w, r, "reportID")
	if !ok {
		return
	}
	articles, err := s.db.GetArticlesForReport(reportID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleArticleReports(w http.ResponseWriter, r *http.Request) {
	articleID, ok := idParam(w, r, "articleID")
	if !ok {
		return
	}
	reports, err := s.db.GetReportsForArticle(articleID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// --- Write Handlers ---

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var a model.Article
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	id, err := s.db.InsertArticle(&a)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"article_id": id})
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReportDate string `json:"report_date"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	id, err := s.db.InsertReport(req.ReportDate, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"report_id": id})
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	reportID, ok := idParam(w, r, "reportID")
	if !ok {
		return
	}
	articleID, ok := idParam(w, r, "articleID")
	if !ok {
		return
	}
	id, err := s.db.LinkArticleToReport(articleID, reportID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.ArticleReportLink{ID: id, ArticleID: articleID, ReportID: reportID})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	encoding := r.FormValue("encoding")
	if encoding == "" {
		encoding = s.opts.ImportEncoding
	}
	res, err := s.importer.ImportCSV(file, encoding)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse CSV: %v", err), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"imported": res.Imported,
		"total":    res.Total,
		"skipped":  res.Skipped,
	})
}

// --- Helpers ---

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid %s", name), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// statusFor maps the store's error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, database.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrReferential):
		return http.StatusUnprocessableEntity
	case errors.Is(err, database.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  database.Kind(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
