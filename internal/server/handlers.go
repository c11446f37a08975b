package server

import (
	"encoding/json"
	"net/http"

	"bradhook/internal/access"

	"github.com/go-chi/chi/v5"
)

// HandleHooks lists the registered projects in configuration order
func (s *Server) HandleHooks(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.Registry.List())
}

// HandleTrigger authorizes the caller and dispatches a deployment.
// Authorization runs before any look at the route parameters.
func (s *Server) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	address := access.ClientAddress(r)

	provider, ok := s.Authorizer.Match(address)
	if !ok {
		s.Logger.Warn("Rejected trigger from untrusted address", "address", address, "path", r.URL.Path)
		s.respondStatus(w, http.StatusForbidden)
		return
	}

	name := chi.URLParam(r, "name")
	env := chi.URLParam(r, "env")

	s.Logger.Info("Trigger received", "project", name, "env", env, "address", address, "provider", provider)

	result := s.Dispatcher.Dispatch(r.Context(), name, env)

	s.Logger.Info("Trigger handled",
		"project", name,
		"env", env,
		"outcome", result.Outcome.String(),
		"exit_code", result.ExitCode,
		"duration_ms", result.Duration.Milliseconds())

	s.respondStatus(w, result.Outcome.HTTPStatus())
}

// HandleHealth handles health check requests
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"project_count": s.Registry.Count(),
	})
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.Logger.Error("Failed to encode JSON response", "error", err)
	}
}

// respondStatus sends the status text as a plain body, nothing else
func (s *Server) respondStatus(w http.ResponseWriter, statusCode int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)

	if _, err := w.Write([]byte(http.StatusText(statusCode))); err != nil {
		s.Logger.Error("Failed to write response", "error", err)
	}
}
