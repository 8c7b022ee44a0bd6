package spectate

import (
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

//go:embed viewer.html
var viewerPage []byte

// Config holds the settings for a spectator server.
type Config struct {
	// Addr is the listen address, for example "127.0.0.1:7777".
	Addr string

	// Logger receives server events. nil discards them.
	Logger *log.Logger

	// AccessLog receives one line per HTTP request in Apache common log
	// format. nil disables access logging.
	AccessLog io.Writer
}

// Server exposes a running session to browsers: a canvas viewer on /,
// the snapshot stream on /watch and a JSON summary on /api/status.
type Server struct {
	hub    *Hub
	logger *log.Logger
	http   *http.Server
}

// NewServer wires a hub and an HTTP server around cfg. Nothing listens
// until Start is called.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		hub:    NewHub(logger),
		logger: logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/watch", s.handleWatch).Methods("GET")
	r.HandleFunc("/api/status", s.handleStatus).Methods("GET")

	accessLog := cfg.AccessLog
	if accessLog == nil {
		accessLog = io.Discard
	}
	handler := handlers.LoggingHandler(accessLog, handlers.RecoveryHandler()(r))

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Hub returns the snapshot fan-out hub the game loop broadcasts through.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start runs the hub and serves HTTP until Shutdown is called. It always
// returns a non-nil error; after a clean Shutdown that error is
// http.ErrServerClosed.
func (s *Server) Start() error {
	go s.hub.Run()
	s.logger.Info("spectator server listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown disconnects every viewer and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Stop()
	return s.http.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(viewerPage)
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}

type statusResponse struct {
	Viewers int    `json:"viewers"`
	State   string `json:"state"`
	Level   string `json:"level,omitempty"`
	Tick    uint64 `json:"tick"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := statusResponse{
		Viewers: s.hub.ClientCount(),
		State:   "waiting",
	}
	if snap := s.hub.LastSnapshot(); snap != nil {
		status.State = snap.State
		status.Level = snap.Level
		status.Tick = snap.Tick
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Error("cannot encode status", "err", err)
	}
}
