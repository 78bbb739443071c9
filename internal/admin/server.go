// Package admin exposes the operator console: a password-gated, read-only
// HTTP API plus an embedded browser UI projecting live bot state (status,
// sessions, data directory layout) into bounded JSON views.
package admin

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/clawmon/clawmon/internal/session"
	webassets "github.com/clawmon/clawmon/web"
)

// ModelProvider reports the active model identifier.
type ModelProvider interface {
	Model() string
}

// SessionStore is the slice of the session manager the console reads from.
type SessionStore interface {
	List() []session.SessionInfo
	GetOrCreate(key string) *session.Session
}

// CronReporter reports scheduler state as an opaque mapping.
type CronReporter interface {
	Status() map[string]any
}

// Options configures the console. Agent, Sessions, and Cron are optional
// collaborators; a nil collaborator degrades the affected view to a
// documented default instead of failing.
type Options struct {
	Host     string
	Port     int
	Password string
	// DataDir is the operator-data directory shown by the file tree view.
	DataDir string
	// FileTreeDepth bounds the file tree walk. Defaults to 3.
	FileTreeDepth int
	Channels      []string
	Agent         ModelProvider
	Sessions      SessionStore
	Cron          CronReporter
}

// Server is the admin console HTTP server.
type Server struct {
	opts      Options
	startedAt time.Time
	httpSrv   *http.Server
	listener  net.Listener
}

// NewServer creates a console server. The process uptime clock starts here.
func NewServer(opts Options) *Server {
	if opts.FileTreeDepth <= 0 {
		opts.FileTreeDepth = 3
	}
	return &Server{
		opts:      opts,
		startedAt: time.Now(),
	}
}

// Handler builds the routed, auth-gated handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/sessions", s.handleSessions)
	mux.HandleFunc("/api/sessions/", s.handleSessionDetail)
	mux.HandleFunc("/api/files", s.handleFiles)
	return s.withAuth(mux)
}

// withAuth gates every route behind HTTP Basic auth. An empty configured
// password disables the gate. The wrapped handler never runs on a denied
// request.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Password == "" {
			next.ServeHTTP(w, r)
			return
		}
		if authorized(r.Header.Get("Authorization"), s.opts.Password) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("WWW-Authenticate", `Basic realm="clawmon admin"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}

// authorized decodes a Basic auth header and compares the password portion
// against the configured credential. Any malformed header denies.
func authorized(header, password string) bool {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return false
	}
	_, pwd, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pwd), []byte(password)) == 1
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := webassets.Files.ReadFile("index.html")
	if err != nil {
		http.Error(w, "console asset missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, s.aggregate(time.Now()))
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, s.listSummaries())
}

func (s *Server) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if key == "" {
		http.NotFound(w, r)
		return
	}
	detail, err := s.detail(key)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, detail)
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, Snapshot(s.opts.DataDir, s.opts.FileTreeDepth))
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Start binds the configured port and serves until Stop is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("admin console listen: %w", err)
	}
	s.listener = ln
	s.httpSrv = &http.Server{Handler: s.Handler()}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("Admin console server failed", "error", err)
		}
	}()

	slog.Info("Admin console started", "addr", addr)
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, releasing the port.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	err := s.httpSrv.Shutdown(ctx)
	s.httpSrv = nil
	s.listener = nil
	return err
}
