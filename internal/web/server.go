// Package web exposes the latest recognition results of a running session
// over HTTP, for rendering collaborators that live out of process.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/face-watch/internal/gallery"
	"github.com/kozaktomas/face-watch/internal/recognize"
)

// Server serves read-only views over a recognition session.
type Server struct {
	session    *recognize.Session
	gallery    *gallery.Gallery
	router     *chi.Mux
	httpServer *http.Server
}

// NewServer creates the HTTP server for a session and its loaded gallery.
func NewServer(session *recognize.Session, g *gallery.Gallery, host string, port int) *Server {
	r := chi.NewRouter()

	s := &Server{
		session: session,
		gallery: g,
		router:  r,
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/api/results", s.handleResults)
	r.Get("/api/gallery", s.handleGallery)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// resultsResponse is the per-frame output stream shape.
type resultsResponse struct {
	Session string             `json:"session"`
	Frame   int                `json:"frame"`
	Results []recognize.Result `json:"results"`
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	sched := s.session.Scheduler()
	results := sched.Latest()
	if results == nil {
		results = []recognize.Result{}
	}

	writeJSON(w, resultsResponse{
		Session: s.session.ID(),
		Frame:   sched.Frames(),
		Results: results,
	})
}

// galleryResponse summarizes the loaded gallery.
type galleryResponse struct {
	Model      string `json:"model"`
	Dim        int    `json:"dim"`
	Identities int    `json:"identities"`
	Records    int    `json:"records"`
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, galleryResponse{
		Model:      s.gallery.Model,
		Dim:        s.gallery.Dim,
		Identities: len(s.gallery.Identities()),
		Records:    s.gallery.Len(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
