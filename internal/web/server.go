// Package web provides an HTTP status server for the fader-sensor daemon.
package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/sweeney/fader-sensor/internal/status"
)

// Server serves the status pages over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
}

// PotReading is the minimal pull-style payload: the last raw count and when
// it was captured (unix seconds, 0 before the first successful cycle).
type PotReading struct {
	Value     uint32 `json:"value"`
	Timestamp int64  `json:"timestamp"`
}

// New creates a Server that reads state from the given tracker. A nil
// metricsHandler disables the /metrics route.
func New(addr string, tracker *status.Tracker, metricsHandler http.Handler) *Server {
	s := &Server{tracker: tracker}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/potentiometer", s.handlePotentiometer)
	mux.HandleFunc("/health", s.handleHealth)
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handlePotentiometer(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()

	reading := PotReading{Value: snap.Raw}
	if snap.Ready() {
		reading.Timestamp = snap.LastSample.Unix()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reading)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("OK"))
}
