package server

import (
	"encoding/json"
	"net/http"

	"github.com/LaBatata101/python-lsp/errors"
	"github.com/LaBatata101/python-lsp/logger"
	"github.com/LaBatata101/python-lsp/version"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, map[string]string{"error": message})
}

// requireMethod checks if the request method matches the expected method
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// Status is served at /status next to the WebSocket endpoint.
type Status struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	Transport   string `json:"transport"`
	Connections int    `json:"connections"`
	Documents   int    `json:"documents"`
}

// Status reports the live connections and their open documents.
func (s *Server) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Name:        ServerName,
		Version:     version.Version,
		Commit:      version.Get().Short(),
		Transport:   s.cfg.Server.Transport,
		Connections: len(s.handlers),
	}
	for h := range s.handlers {
		st.Documents += len(h.session.Documents())
	}
	return st
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if err := writeJSON(w, http.StatusOK, s.Status()); err != nil {
		s.logger.Warnw("Failed to write status", logger.FieldError, err)
	}
}
