package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yachiey/ocr-final/internal/common"
	"github.com/yachiey/ocr-final/internal/export"
	"github.com/yachiey/ocr-final/internal/extraction"
	"github.com/yachiey/ocr-final/internal/repository"
	"github.com/yachiey/ocr-final/internal/storage"
)

// Pinger is the connectivity probe used by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the extraction pipeline over HTTP. The repository,
// exporter, image store, and pinger are optional: without them the server
// still extracts, it just does not persist.
type Server struct {
	svc      *extraction.Service
	results  repository.ResultRepository
	exporter *export.Service
	images   storage.Storage
	db       Pinger
	logger   *slog.Logger
	http     *http.Server
}

func New(addr string, svc *extraction.Service, results repository.ResultRepository, exporter *export.Service, images storage.Storage, db Pinger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		svc:      svc,
		results:  results,
		exporter: exporter,
		images:   images,
		db:       db,
		logger:   logger,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the router; exposed for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.recoverer)

	r.Post("/ocr/extract", s.handleExtract)
	r.Get("/ocr/results", s.handleListResults)
	r.Get("/ocr/results/export", s.handleExportResults)
	r.Get("/healthz", s.handleHealth)
	return r
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server.listen", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", rid)
		ctx := common.WithRequestID(r.Context(), rid)
		if uid := r.Header.Get("X-User-ID"); uid != "" {
			ctx = common.WithUserID(ctx, uid)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// recoverer converts panics into the generic failure response without
// leaking internals.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("server.panic",
					"req_id", common.RequestIDFromContext(r.Context()),
					"panic", rec,
				)
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"error": "An unexpected error occurred.",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "db unreachable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("server.encode_response", "error", err)
	}
}
