// Package web provides the HTTP API for the floor-area calculator.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/floorarea/internal/config"
	"github.com/JonMunkholm/floorarea/internal/core"
	"github.com/JonMunkholm/floorarea/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RunHistory is the run store used by the API. Satisfied by *core.HistoryStore.
type RunHistory interface {
	core.RunRecorder
	Recent(ctx context.Context, limit int) ([]core.RunEntry, error)
}

// Server is the HTTP server for the floor-area API.
type Server struct {
	cfg       config.ServerConfig
	parser    *core.RecordParser
	dataFile  string
	maxUpload int64
	apiKey    string
	limiter   *UploadLimiter
	history   RunHistory
	router    *chi.Mux
	server    *http.Server
}

// NewServer creates a new Server. history may be nil, in which case runs are
// not recorded and /api/runs is not served.
func NewServer(cfg *config.Config, parser *core.RecordParser, history RunHistory) *Server {
	s := &Server{
		cfg:       cfg.Server,
		parser:    parser,
		dataFile:  cfg.Source.DataFile,
		maxUpload: cfg.Upload.MaxFileSize,
		apiKey:    cfg.Security.APIKey,
		limiter:   NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWait),
		history:   history,
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.RequestTimeout))
	}
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(s.apiKey))

		r.Get("/floor-area", s.handleFloorAreaFromFile)
		r.Post("/floor-area", s.handleFloorAreaFromUpload)

		if s.history != nil {
			r.Get("/runs", s.handleRecentRuns)
		}
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for running uploads to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.limiter.WaitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
