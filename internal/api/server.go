// Package api exposes coverage check results over a small HTTP REST
// surface, letting dashboards poll a research workspace.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/hugo-lorenzo-mato/wide-research/internal/checker"
	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
	"github.com/hugo-lorenzo-mato/wide-research/internal/history"
	"github.com/hugo-lorenzo-mato/wide-research/internal/metadata"
	"github.com/hugo-lorenzo-mato/wide-research/internal/workspace"
)

// Server serves check results for one workspace.
type Server struct {
	router  chi.Router
	ws      *workspace.Workspace
	history *history.Store
	logger  *slog.Logger
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithHistory attaches a history store. Checks run through the API
// are recorded, and /api/v1/history becomes available.
func WithHistory(store *history.Store) ServerOption {
	return func(s *Server) {
		s.history = store
	}
}

// NewServer creates a new API server over the given workspace.
func NewServer(ws *workspace.Workspace, opts ...ServerOption) *Server {
	s := &Server{
		ws:     ws,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router = s.setupRouter()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.loggingMiddleware)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	r.Use(corsHandler.Handler)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/check", s.handleCheck)
		r.Get("/check", s.handleCheck)
		r.Get("/metadata", s.handleMetadata)
		r.Get("/history", s.handleHistory)
	})

	return r
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"bytes", ww.BytesWritten(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// respondError sends a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"workspace": s.ws.Dir(),
		"time":      time.Now().UTC().Format(time.RFC3339),
	})
}

// handleCheck runs a full coverage check and returns the report.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if !s.ws.Exists() {
		respondError(w, http.StatusNotFound, "workspace not found: "+s.ws.Dir())
		return
	}

	rep := checker.New(s.ws).Run()
	if s.history != nil {
		err := s.history.Record(r.Context(), history.Entry{
			RunID:     rep.RunID,
			Workspace: rep.Workspace,
			StartedAt: rep.StartedAt,
			Verdict:   rep.Verdict,
			Issues:    len(rep.Issues()),
			Warnings:  len(rep.Warnings()),
			Stats:     rep.Stats,
		})
		if err != nil {
			s.logger.Warn("failed to record check run", "error", err)
		}
	}
	respondJSON(w, http.StatusOK, rep)
}

// handleMetadata returns the workspace metadata document.
func (s *Server) handleMetadata(w http.ResponseWriter, _ *http.Request) {
	rec, err := metadata.NewStore(s.ws.MetadataPath()).Load()
	if err != nil {
		if core.IsCategory(err, core.ErrCatNotFound) {
			respondError(w, http.StatusNotFound, "metadata.json not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// handleHistory lists recent check runs.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondError(w, http.StatusNotFound, "history store not configured")
		return
	}
	entries, err := s.history.Recent(r.Context(), 50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// ListenAndServe starts the HTTP server and shuts it down when ctx
// is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting API server", "addr", addr)
	return srv.ListenAndServe()
}
