// Package httpapi serves the review, security scan and status operations as
// a JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/application"
	"github.com/openkraft/codereview/internal/domain"
)

const (
	maxBodyBytes    = 5 << 20
	shutdownTimeout = 5 * time.Second
)

// DefaultAllowedOrigins are the editor front-end dev servers allowed to call
// the API from a browser.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}

// Server routes HTTP requests to the application services.
type Server struct {
	svcs    *application.Services
	version string
	origins map[string]bool
	logger  *zap.Logger
	mux     *http.ServeMux
}

func NewServer(svcs *application.Services, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		svcs:    svcs,
		version: version,
		origins: make(map[string]bool),
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	for _, o := range DefaultAllowedOrigins {
		s.origins[o] = true
	}

	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("POST /api/review", s.handleReview)
	s.mux.HandleFunc("POST /api/scan-security", s.handleScanSecurity)
	return s
}

// Handler returns the routed handler wrapped in request logging and CORS.
func (s *Server) Handler() http.Handler {
	return s.withLogging(s.withCORS(s.mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	}
}

type rootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

type reviewResponse struct {
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{Message: "Code Review Service API", Status: "running", Version: s.version})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svcs.Status.Status())
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	diags, err := s.svcs.Review.Review(r.Context(), req)
	if err != nil {
		var reviewErr *domain.ReviewError
		if errors.As(err, &reviewErr) {
			err = reviewErr.Err
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("Review failed: %v", err)})
		return
	}
	writeJSON(w, http.StatusOK, reviewResponse{Diagnostics: diags})
}

func (s *Server) handleScanSecurity(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	report, err := s.svcs.Scan.Scan(r.Context(), req)
	if err != nil {
		// Only reachable if the scan failure policy is changed to surface.
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("Security scan failed: %v", err)})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// decodeRequest parses a review request. Omitted preferences keep their
// defaults.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (domain.ReviewRequest, bool) {
	req := domain.ReviewRequest{Preferences: domain.DefaultPreferences()}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: fmt.Sprintf("invalid request body: %v", err)})
		return req, false
	}
	if req.Language == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "language is required"})
		return req, false
	}
	return req, true
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if s.origins[origin] {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http request",
			zap.String("request_id", uuid.NewString()),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
