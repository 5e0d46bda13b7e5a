// Package server runs the sith language server over stdio, TCP or WebSocket.
package server

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	glspserver "github.com/tliron/glsp/server"
	"go.uber.org/zap"

	"github.com/LaBatata101/python-lsp/config"
	"github.com/LaBatata101/python-lsp/errors"
	"github.com/LaBatata101/python-lsp/logger"
	"github.com/LaBatata101/python-lsp/lsp"
)

// ShutdownTimeout bounds how long the WebSocket listener waits for open connections.
const ShutdownTimeout = 5 * time.Second

// Server owns the shared language service and every live connection handler.
type Server struct {
	service *lsp.Service
	logger  *zap.SugaredLogger

	mu           sync.Mutex
	cfg          *config.Config
	handlers     map[*GLSPHandler]struct{}
	maxDocuments int
}

// New creates a server from a validated configuration.
func New(cfg *config.Config, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = logger.Logger
	}
	return &Server{
		service:      lsp.NewService(serviceOptions(cfg)),
		logger:       log.Named("server"),
		cfg:          cfg,
		handlers:     make(map[*GLSPHandler]struct{}),
		maxDocuments: cfg.Server.MaxDocuments,
	}
}

func serviceOptions(cfg *config.Config) lsp.Options {
	return lsp.Options{
		MaxDiagnostics: cfg.Diagnostics.MaxPerDocument,
		SemanticTokens: cfg.Diagnostics.SemanticTokens,
	}
}

// Service returns the shared language service.
func (s *Server) Service() *lsp.Service {
	return s.service
}

// Reload applies a new configuration to the service and every open session.
// Transport settings only take effect on restart.
func (s *Server) Reload(cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.Server.Transport != s.cfg.Server.Transport || cfg.Server.Address != s.cfg.Server.Address {
		s.logger.Warnw("Transport changes need a restart",
			logger.FieldTransport, cfg.Server.Transport,
			logger.FieldAddress, cfg.Server.Address,
		)
	}

	s.cfg = cfg
	s.maxDocuments = cfg.Server.MaxDocuments
	s.service.SetOptions(serviceOptions(cfg))
	for h := range s.handlers {
		h.session.SetMaxDocuments(cfg.Server.MaxDocuments)
	}

	s.logger.Infow("Configuration reloaded",
		"max_documents", cfg.Server.MaxDocuments,
		"max_diagnostics", cfg.Diagnostics.MaxPerDocument,
		"semantic_tokens", cfg.Diagnostics.SemanticTokens,
		logger.FieldCount, len(s.handlers),
	)
	return nil
}

// newHandler creates and registers a handler for one connection.
func (s *Server) newHandler() *GLSPHandler {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := NewGLSPHandler(s.service, s.maxDocuments, s.logger)
	s.handlers[h] = struct{}{}
	return h
}

func (s *Server) dropHandler(h *GLSPHandler) {
	h.publisher.Stop()
	s.mu.Lock()
	delete(s.handlers, h)
	s.mu.Unlock()
}

// Run serves on the configured transport until ctx is cancelled or the
// transport fails.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	transport, address := s.cfg.Server.Transport, s.cfg.Server.Address
	s.mu.Unlock()

	s.logger.Infow("Language server starting",
		logger.FieldTransport, transport,
		logger.FieldAddress, address,
	)

	switch transport {
	case config.TransportStdio:
		return s.runGLSP(ctx, func(srv *glspserver.Server) error { return srv.RunStdio() })
	case config.TransportTCP:
		return s.runGLSP(ctx, func(srv *glspserver.Server) error { return srv.RunTCP(address) })
	case config.TransportWebSocket:
		return s.RunWebSocket(ctx, address)
	}
	return errors.WithHint(
		errors.NewInvalidRequestError("unknown transport %q", transport),
		"use one of stdio, tcp, websocket")
}

// runGLSP serves one handler through a blocking glsp runner. Stdio carries a
// single client; TCP clients share the handler's session.
func (s *Server) runGLSP(ctx context.Context, run func(*glspserver.Server) error) error {
	h := s.newHandler()
	defer s.dropHandler(h)

	srv := glspserver.NewServer(h.Protocol(), ServerName, false)

	errc := make(chan error, 1)
	go func() { errc <- run(srv) }()

	select {
	case err := <-errc:
		if err != nil {
			return errors.Wrap(err, "language server stopped")
		}
		return nil
	case <-ctx.Done():
		s.logger.Infow("Language server stopping")
		return nil
	}
}

// WebSocket upgrader. Editors and local tools connect without an Origin
// header; browsers must come from localhost.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     checkOrigin,
}

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range []string{"http://localhost", "https://localhost", "http://127.0.0.1", "https://127.0.0.1"} {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}

// ServeWebSocket upgrades an HTTP request and serves the protocol on it until
// the connection closes.
func (s *Server) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("Failed to upgrade WebSocket", "remote", r.RemoteAddr, logger.FieldError, err)
		return
	}

	h := s.newHandler()
	defer s.dropHandler(h)

	h.logger.Infow("Serving LSP over WebSocket", "remote", r.RemoteAddr)
	glspserver.NewServer(h.Protocol(), ServerName, false).ServeWebSocket(conn)
	h.logger.Infow("WebSocket connection closed", "remote", r.RemoteAddr)
}

// Handler returns the HTTP routes of the WebSocket transport: the protocol
// endpoint at / and a JSON status report at /status.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/", s.ServeWebSocket)
	return mux
}

// RunWebSocket listens on address and serves each WebSocket connection with
// its own session.
func (s *Server) RunWebSocket(ctx context.Context, address string) error {

	httpServer := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- httpServer.ListenAndServe() }()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "failed to serve WebSocket on %s", address)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Infow("Shutting down WebSocket listener", logger.FieldAddress, address)
		return httpServer.Shutdown(shutdownCtx)
	}
}

// Connections returns the number of live handlers.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}
