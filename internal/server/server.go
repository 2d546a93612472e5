// Package server hosts the dashboard for browsers: the page, a fragment
// endpoint for in-place updates, a JSON view of the snapshot and a
// websocket that announces every tick and update.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/rileyhilliard/pollboard/internal/app"
	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/rileyhilliard/pollboard/internal/logger"
	"github.com/rileyhilliard/pollboard/internal/render"
	"github.com/rileyhilliard/pollboard/internal/snapshot"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// Listen overrides the session's server.listen address.
	Listen       string
	ClientBuffer int
}

// Server serves one Session over HTTP.
type Server struct {
	session *app.Session
	hub     *Hub
	listen  string
	log     logger.Logger
	httpSrv *http.Server
}

// New creates a server and subscribes its hub to the session's events.
func New(session *app.Session, opts Options) *Server {
	listen := opts.Listen
	if listen == "" {
		listen = session.Config.Server.Listen
	}

	s := &Server{
		session: session,
		hub:     NewHub(opts.ClientBuffer, session.Log),
		listen:  listen,
		log:     session.Log,
	}
	session.Subscribe(s.hub.Publish)

	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /fragment", s.handleFragment)
	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /ws", s.hub)
	return mux
}

// Listen binds the configured address.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrServe,
			"Couldn't listen on "+s.listen,
			"Pick another address with --listen or server.listen, or stop whatever is using the port.")
	}
	return ln, nil
}

// ListenAndServe binds the address and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info("dashboard at http://%s/", ln.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		if err != nil && err != http.ErrServerClosed {
			return errors.WrapWithCode(err, errors.ErrServe, "Dashboard server stopped", "")
		}
		return nil
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("shutdown: %v", err)
	}
	<-errCh
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := s.session.Renderer.RenderPage(s.session.Snapshot())
	s.writePage(w, r, page, err)
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	page, err := s.session.Renderer.RenderFragment(s.session.Snapshot())
	s.writePage(w, r, page, err)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, page render.Page, err error) {
	if err != nil {
		s.log.Error("render failed: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", page.ETag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == page.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page.Body)
}

type snapshotResponse struct {
	Generation  uint64         `json:"generation"`
	FetchedAt   *time.Time     `json:"fetched_at"`
	LastAttempt *time.Time     `json:"last_attempt"`
	Stale       bool           `json:"stale"`
	LastError   string         `json:"last_error"`
	Columns     []string       `json:"columns"`
	Rows        []snapshot.Row `json:"rows"`
}

// SnapshotResponse is the JSON form of a snapshot served at /api/snapshot.
func SnapshotResponse(snap snapshot.Snapshot) any {
	resp := snapshotResponse{
		Generation: snap.Generation,
		Stale:      snap.Stale,
		LastError:  snap.LastError,
		Columns:    snap.Columns,
		Rows:       snap.Rows,
	}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	if resp.Rows == nil {
		resp.Rows = []snapshot.Row{}
	}
	if !snap.FetchedAt.IsZero() {
		t := snap.FetchedAt.UTC()
		resp.FetchedAt = &t
	}
	if !snap.LastAttempt.IsZero() {
		t := snap.LastAttempt.UTC()
		resp.LastAttempt = &t
	}
	return resp
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SnapshotResponse(s.session.Snapshot()))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.session.Refresh()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh requested"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"state":      s.session.Scheduler.State().String(),
		"tick":       s.session.Scheduler.Ticks(),
		"generation": snap.Generation,
		"stale":      snap.Stale,
		"clients":    s.hub.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
