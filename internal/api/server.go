// Package api serves the tracker's records and views over a local HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/jtrack/internal/github"
	"github.com/Tiliavir/jtrack/internal/storage"
)

// StarCounter reports a repository's star count.
type StarCounter interface {
	Stars(ctx context.Context) (github.Stars, error)
}

// VisitorCounter reports a visitor total.
type VisitorCounter interface {
	Visitors(ctx context.Context) (int, error)
}

// Options wires the server's collaborators. Stars and Visitors are optional.
type Options struct {
	Applications *storage.Applications
	Notes        *storage.DateNotes
	Stars        StarCounter
	Visitors     VisitorCounter
	Location     *time.Location
	Now          func() time.Time
	Logger       *zap.Logger
}

// Server handles HTTP requests for the tracker API.
type Server struct {
	apps     *storage.Applications
	notes    *storage.DateNotes
	stars    StarCounter
	visitors VisitorCounter
	loc      *time.Location
	now      func() time.Time
	log      *zap.Logger
	mux      *http.ServeMux
}

// New creates a server with its routes registered.
func New(opts Options) *Server {
	s := &Server{
		apps:     opts.Applications,
		notes:    opts.Notes,
		stars:    opts.Stars,
		visitors: opts.Visitors,
		loc:      opts.Location,
		now:      opts.Now,
		log:      opts.Logger,
		mux:      http.NewServeMux(),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.health)

	// Applications
	s.mux.HandleFunc("GET /applications", s.listApplications)
	s.mux.HandleFunc("POST /applications", s.addApplication)
	s.mux.HandleFunc("GET /applications/{id}", s.getApplication)

	// Views
	s.mux.HandleFunc("GET /stats", s.getStats)
	s.mux.HandleFunc("GET /calendar", s.getCalendar)

	// Date notes
	s.mux.HandleFunc("GET /notes", s.listNotes)
	s.mux.HandleFunc("DELETE /notes", s.clearNotes)
	s.mux.HandleFunc("GET /notes/{date}", s.getNote)
	s.mux.HandleFunc("PUT /notes/{date}", s.putNote)
	s.mux.HandleFunc("DELETE /notes/{date}", s.deleteNote)

	// Collaborators
	s.mux.HandleFunc("GET /stars", s.getStars)
	s.mux.HandleFunc("GET /visitors", s.getVisitors)
}

// Handler returns the routed handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	return withCORS(s.withLogging(s.mux))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

// withCORS adds CORS headers for browser front-ends on other origins.
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		h.ServeHTTP(w, r)
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

func (s *Server) withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
