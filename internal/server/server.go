package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/persondata/internal/bootstrap"
	"github.com/yigit/persondata/internal/config"
	"github.com/yigit/persondata/internal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Server holds the state for the HTTP server.
type Server struct {
	config *config.Config
	deps   *bootstrap.Dependencies
	router *gin.Engine
	http   *http.Server
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(configPath string) (*Server, error) {
	cfg, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}
	return New(cfg)
}

// New builds a server from an already loaded configuration.
func New(cfg *config.Config) (*Server, error) {
	deps, err := bootstrap.BuildDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(deps)
	return &Server{
		config: cfg,
		deps:   deps,
		router: router,
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout(),
			WriteTimeout: cfg.WriteTimeout(),
			IdleTimeout:  120 * time.Second,
		},
	}, nil
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until SIGINT/SIGTERM and then shuts down gracefully.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.RunContext(ctx)
}

// RunContext serves until ctx is done or the listener fails.
func (s *Server) RunContext(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	s.deps.Scheduler.Start()

	g.Go(func() error {
		logger.Info().Str("addr", s.http.Addr).Str("mode", s.config.Server.Mode).Msg("HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutdown requested")
		return s.Shutdown(context.Background())
	})

	return g.Wait()
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var shutdownErr error
	logger.Info().Msg("Shutting down HTTP server...")
	if err := s.http.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
		shutdownErr = fmt.Errorf("http shutdown: %w", err)
	}

	s.deps.Scheduler.Stop(ctx)
	s.deps.Close()

	logger.Info().Msg("Server shutdown process complete.")
	return shutdownErr
}
