// Package server exposes the simulator over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Veraticus/budgetsim/internal/common"
	"github.com/Veraticus/budgetsim/internal/config"
	"github.com/Veraticus/budgetsim/internal/recommend"
	"github.com/Veraticus/budgetsim/internal/simulation"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Server handles simulation requests and serves exported CSV files.
type Server struct {
	engine         *simulation.Engine
	strategies     map[string]recommend.Strategy
	logger         *slog.Logger
	router         *mux.Router
	exportDir      string
	defaultAdvisor string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStrategy registers the recommendation strategy used for an advisor name.
func WithStrategy(advisor string, strategy recommend.Strategy) Option {
	return func(s *Server) {
		s.strategies[advisor] = strategy
	}
}

// WithDefaultAdvisor selects the advisor used when a request names none.
func WithDefaultAdvisor(advisor string) Option {
	return func(s *Server) {
		s.defaultAdvisor = advisor
	}
}

// New creates a server that writes exports under exportDir. The rule-based
// advisor is always available.
func New(engine *simulation.Engine, exportDir string, opts ...Option) *Server {
	s := &Server{
		engine:         engine,
		exportDir:      exportDir,
		defaultAdvisor: config.AdvisorRules,
		strategies: map[string]recommend.Strategy{
			config.AdvisorRules: recommend.NewRuleBased(),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = common.LoggerOrDefault(s.logger)

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodPost)
	r.HandleFunc("/download/{filename}", s.handleDownload).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router = r

	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2 * recommend.DefaultTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("Shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
