// Package server provides the HTTP REST API for saving, listing and exporting CVs.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/db"
	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/server/middleware"
	"github.com/jonathan/cv-builder/internal/server/ratelimit"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 10 << 20

// Repository is the storage the API needs. *db.DB implements it.
type Repository interface {
	CreateCV(ctx context.Context, userID, template string, doc cv.Document) (*db.Record, error)
	GetCV(ctx context.Context, id uuid.UUID) (*db.Record, error)
	UpdateCV(ctx context.Context, id uuid.UUID, template string, doc cv.Document) (*db.Record, error)
	DeleteCV(ctx context.Context, id uuid.UUID) (bool, error)
	ListCVsByUser(ctx context.Context, userID string, req db.PageRequest) (*db.SummaryPage, error)
	Close()
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	repo        Repository
	rateLimiter *ratelimit.Limiter
	exporter    *export.Exporter
	cache       *export.Cache
	frontendURL string
	now         func() time.Time
}

// Config holds server configuration
type Config struct {
	Port          int
	DatabaseURL   string
	FrontendURL   string
	ChromePath    string
	ExportTimeout time.Duration
	// ExportCacheTTL is how long rendered exports are reused; zero uses 10 minutes.
	ExportCacheTTL time.Duration
	// RateLimit defaults to ratelimit.LoadConfig() when nil.
	RateLimit *ratelimit.Config
}

// New connects to the database, applies the schema and builds a server that prints PDFs with
// headless Chrome.
func New(ctx context.Context, cfg Config) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return NewWithRepository(database, export.NewChromeRenderer(cfg.ChromePath), cfg), nil
}

// NewWithRepository builds a server around an existing repository and PDF renderer.
func NewWithRepository(repo Repository, renderer export.PDFRenderer, cfg Config) *Server {
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}
	if cfg.ExportCacheTTL <= 0 {
		cfg.ExportCacheTTL = 10 * time.Minute
	}

	s := &Server{
		repo:        repo,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		exporter:    export.NewExporter(renderer, export.WithTimeout(cfg.ExportTimeout)),
		cache:       export.NewCache(cfg.ExportCacheTTL),
		frontendURL: cfg.FrontendURL,
		now:         time.Now,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * export.DefaultTimeout, // PDF exports
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed API wrapped in its middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// CV CRUD
	mux.HandleFunc("POST /api/cvs", s.handleCreateCV)
	mux.HandleFunc("GET /api/cvs/{cvId}", s.handleGetCV)
	mux.HandleFunc("PUT /api/cvs/{cvId}", s.handleUpdateCV)
	mux.HandleFunc("DELETE /api/cvs/{cvId}", s.handleDeleteCV)
	mux.HandleFunc("GET /api/users/{userId}/cvs", s.handleListUserCVs)

	// Derived views
	mux.HandleFunc("GET /api/cvs/{cvId}/progress", s.handleProgress)
	mux.HandleFunc("GET /api/cvs/{cvId}/preview", s.handlePreview)
	mux.HandleFunc("GET /api/cvs/{cvId}/export/{format}", s.handleExport)

	// Templates
	mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	mux.HandleFunc("GET /api/templates/{templateId}", s.handleGetTemplate)
	mux.HandleFunc("GET /api/templates/{templateId}/preview", s.handleTemplatePreview)

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		s.errorResponse(w, http.StatusNotFound, "Route not found")
	})

	return s.withRateLimit(s.withLogging(s.withCORS(middleware.ClientID(mux))))
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	log.Info().Msg("server stopped")
	return nil
}

// Close releases the limiter, the export cache and the repository.
func (s *Server) Close() {
	s.rateLimiter.Stop()
	s.cache.Flush()
	if s.repo != nil {
		s.repo.Close()
	}
}

// withCORS allows the configured frontend origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.frontendURL)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.ClientIDHeader)
		h.Set("Access-Control-Expose-Headers", "Content-Disposition, X-Page-Count")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exhausted their bucket with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientIP(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		event := log.Info()
		if rec.status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "CV Builder API is running",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes {"message": ...}.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"message": message})
}

// clientIP identifies the caller for rate limiting by the address of the connection.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds()+0.5)))
	}
	log.Warn().Str("path", r.URL.Path).Str("client", clientIP(r)).Int("limit", info.Limit).Msg("rate limit exceeded")
	s.errorResponse(w, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
}
