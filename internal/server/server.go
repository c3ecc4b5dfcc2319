// Package server exposes the generated artifacts and a small control API
// when the tool runs in serve mode. Players fetch /playlist.m3u directly;
// /api/refresh triggers a new extraction pass without waiting for the
// external scheduler.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tubelink/tubelink/internal/cache"
	"github.com/tubelink/tubelink/internal/config"
	"github.com/tubelink/tubelink/internal/models"
	"github.com/tubelink/tubelink/internal/playlist"
	"github.com/tubelink/tubelink/internal/service"
	"github.com/tubelink/tubelink/internal/store"
)

// Server holds dependencies for the HTTP surface.
type Server struct {
	cfg      *config.Config
	channels []models.Channel
	runner   *service.Runner
	rds      *cache.Redis // nil when REDIS_URL is not set
	st       store.Store  // nil when DATABASE_URL is not set
	mux      *http.ServeMux
}

// New creates a Server and registers routes. rds and st may be nil.
func New(cfg *config.Config, channels []models.Channel, runner *service.Runner, rds *cache.Redis, st store.Store) *Server {
	srv := &Server{cfg: cfg, channels: channels, runner: runner, rds: rds, st: st, mux: http.NewServeMux()}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /playlist.m3u", s.handlePlaylist)
	s.mux.HandleFunc("GET /status.json", s.handleStatus)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/channels", s.handleChannels)
	s.mux.HandleFunc("GET /api/runs", s.handleRuns)
	s.mux.HandleFunc("POST /api/refresh", s.handleRefresh)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the configured port.
// It blocks until the server is shut down or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := ":" + s.cfg.ServerPort
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      withLogging(s),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ListenAndServe: %w", err)
	}
	return nil
}

// --- handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, playlist.M3UFile, "audio/x-mpegurl")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, playlist.StatusFile, "application/json")
}

// serveArtifact serves one of the generated output files from disk, so the
// response always reflects the latest completed run.
func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, name, contentType string) {
	path := filepath.Join(s.cfg.OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		writeErr(w, http.StatusNotFound, fmt.Errorf("%s not generated yet", name))
		return
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}

func (s *Server) handleChannels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.channels)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.st == nil {
		writeErr(w, http.StatusServiceUnavailable, errors.New("run history requires DATABASE_URL"))
		return
	}
	runs, err := s.st.ListRuns(r.Context(), 50)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []store.RunRecord{}
	}
	writeJSON(w, http.StatusOK, runs)
}

type refreshRequest struct {
	URL string `json:"url,omitempty"`
}

// handleRefresh triggers a new extraction pass. With Redis the job is
// queued for the background worker (202); without it the run executes
// inline before responding.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
			return
		}
	}

	if s.rds != nil {
		job := cache.RefreshJob{URL: req.URL, RequestedAt: time.Now().UTC()}
		if err := cache.Enqueue(r.Context(), s.rds, cache.RefreshQueue, job); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}

	channels := s.channels
	if req.URL != "" {
		channels = append([]models.Channel{}, channels...)
		channels = append(channels, models.Channel{
			ID:   "adhoc",
			Name: "Ad hoc",
			URL:  config.NormalizeWatchURL(req.URL),
		})
	}
	summary, err := s.runner.Run(r.Context(), channels, s.cfg.OutputDir)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"live":        summary.Live,
		"unavailable": summary.Unavailable,
		"failed":      summary.Failed,
	})
}

// --- middleware and helpers ---

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// withLogging wraps a handler and logs each request with method, path, status, and duration.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		log.Printf("%-7s %3d %s %s", r.Method, sw.status, r.URL.Path, formatDuration(time.Since(start)))
	})
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dus", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// APIError is the standard error envelope for all error responses.
type APIError struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON: %v", err)
	}
}

func writeErr(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		log.Printf("ERROR %d: %v", status, err)
	}
	writeJSON(w, status, APIError{
		Status: status,
		Error:  http.StatusText(status),
		Detail: err.Error(),
	})
}
