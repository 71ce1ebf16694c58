package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parts-desk/internal/domain"
	"parts-desk/internal/handler"
	"parts-desk/internal/logging"
	"parts-desk/internal/middleware"
)

// Config holds server configuration. It is fixed for the server's lifetime.
type Config struct {
	Host string
	Port int
	// Root is the directory static files are served from.
	Root string
	// DeleteRoute is the single path answering DELETE requests.
	DeleteRoute string
	// MetricsPath exposes Prometheus metrics; empty disables the endpoint.
	MetricsPath     string
	Headers         middleware.HeaderPolicy
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// Clock stamps health responses; nil uses the system time.
	Clock domain.Clock
}

// Server represents the HTTP server.
type Server struct {
	cfg        Config
	httpServer *http.Server
	router     chi.Router
	handler    *handler.Handler
}

// New creates a new Server with the given configuration.
// Optional records can be passed to enable the delete endpoint.
func New(cfg Config, records ...handler.RecordService) *Server {
	if cfg.Headers == (middleware.HeaderPolicy{}) {
		cfg.Headers = middleware.DefaultHeaderPolicy()
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.DeleteRoute == "" {
		cfg.DeleteRoute = "/api/delete-part"
	}
	if cfg.Clock == nil {
		cfg.Clock = domain.RealClock{}
	}

	router := chi.NewRouter()

	s := &Server{
		cfg:    cfg,
		router: router,
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      router,
			ReadTimeout:  orDefault(cfg.ReadTimeout, 10*time.Second),
			WriteTimeout: orDefault(cfg.WriteTimeout, 10*time.Second),
			IdleTimeout:  orDefault(cfg.IdleTimeout, 60*time.Second),
		},
	}

	if len(records) > 0 && records[0] != nil {
		s.handler = handler.New(records[0])
	}

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func (s *Server) registerMiddleware() {
	s.router.Use(
		middleware.Timing,
		middleware.Headers(s.cfg.Headers),
		middleware.RequestID,
		middleware.AccessLog,
		chimiddleware.Recoverer,
		middleware.Metrics,
		middleware.Preflight,
		chimiddleware.NoCache,
	)
}

func (s *Server) registerRoutes() {
	s.router.Get("/health", s.handleHealth)

	if s.cfg.MetricsPath != "" {
		s.router.Method(http.MethodGet, s.cfg.MetricsPath, promhttp.Handler())
	}

	// Register the delete route if a record service is available
	if s.handler != nil {
		s.router.Delete(s.cfg.DeleteRoute, s.handler.DeletePart)
		for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch} {
			s.router.MethodFunc(method, s.cfg.DeleteRoute, emptyNotFound)
		}
	}

	files := http.FileServer(http.Dir(s.cfg.Root))
	s.router.Get("/*", files.ServeHTTP)
	s.router.Head("/*", files.ServeHTTP)

	s.router.MethodNotAllowed(emptyNotFound)
}

func emptyNotFound(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    "healthy",
		Timestamp: s.cfg.Clock.Now().UTC().Format(time.RFC3339),
	})
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the HTTP server. This method blocks until the server is stopped.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// HandleFunc registers a handler function for method and pattern.
// This is useful for testing to add custom endpoints.
func (s *Server) HandleFunc(method, pattern string, handler http.HandlerFunc) {
	s.router.MethodFunc(method, pattern, handler)
}

// Run starts the server and blocks until a shutdown signal is received.
// It handles SIGINT and SIGTERM for graceful shutdown.
// The provided context can also be used to trigger shutdown.
func (s *Server) Run(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)

	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	logging.Info().
		Str("addr", s.httpServer.Addr).
		Str("root", s.cfg.Root).
		Str("delete_route", s.cfg.DeleteRoute).
		Msg("server listening")

	select {
	case sig := <-sigChan:
		logging.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case <-ctx.Done():
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), orDefault(s.cfg.ShutdownTimeout, 30*time.Second))
	defer cancel()

	return s.Shutdown(shutdownCtx)
}
