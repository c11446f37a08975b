package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bradhook/internal/access"
	"bradhook/internal/deployment"
	"bradhook/internal/project"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// HTTP server timeouts. There is no write timeout: a trigger response
	// is written only after the deployment executable exits.
	HTTPReadHeaderTimeout = 10 * time.Second
	HTTPReadTimeout       = 10 * time.Second
	HTTPIdleTimeout       = 60 * time.Second

	// ShutdownTimeout bounds graceful shutdown for requests without a running deployment.
	ShutdownTimeout = 30 * time.Second
)

// Dispatcher runs a deployment for a project/environment pair.
type Dispatcher interface {
	Dispatch(ctx context.Context, name, env string) deployment.Result
}

// Server represents the HTTP server
type Server struct {
	Registry   *project.Registry
	Authorizer *access.Authorizer
	Dispatcher Dispatcher
	Logger     *slog.Logger

	// RateLimit is the number of triggers per minute allowed per client
	// address. Zero disables rate limiting.
	RateLimit int
}

// NewServer creates a new server instance
func NewServer(registry *project.Registry, authorizer *access.Authorizer, dispatcher Dispatcher, logger *slog.Logger) *Server {
	return &Server{
		Registry:   registry,
		Authorizer: authorizer,
		Dispatcher: dispatcher,
		Logger:     logger,
	}
}

// Router creates and configures the HTTP router
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Logging middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				s.Logger.Info("http_request",
					"method", r.Method,
					"path", r.URL.Path,
					"address", access.ClientAddress(r),
					"request_id", middleware.GetReqID(r.Context()),
					"status", ww.Status(),
					"duration_ms", time.Since(start).Milliseconds())
			}()

			next.ServeHTTP(ww, r)
		})
	})

	// Routes
	r.Get("/health", s.HandleHealth)
	r.Get("/hooks", s.HandleHooks)

	if s.RateLimit > 0 {
		r.With(NewTriggerRateLimitMiddleware(s.RateLimit, s.Logger)).Post("/hook/{name}/{env}", s.HandleTrigger)
	} else {
		r.Post("/hook/{name}/{env}", s.HandleTrigger)
	}

	return r
}

// ListenAndServe serves on host:port until ctx is cancelled, then shuts down
// gracefully. Requests waiting on a deployment keep the shutdown pending
// until ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)

	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: HTTPReadHeaderTimeout,
		ReadTimeout:       HTTPReadTimeout,
		IdleTimeout:       HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("Listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
