// Package server exposes the capture service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/highlights/pkg/core"
)

// SavedMessage is the body returned for every successful capture.
const SavedMessage = "Text and link processed"

// NoteService is what the HTTP layer needs from the domain.
type NoteService interface {
	Capture(ctx context.Context, c core.Capture) (core.Result, error)
	GetNote(ctx context.Context, id string) (core.Note, error)
	ListNotes(ctx context.Context, pattern string) ([]string, error)
}

// Config holds HTTP server configuration.
type Config struct {
	Addr        string
	CORSOrigins []string
}

// Server provides the HTTP endpoints.
type Server struct {
	engine  *gin.Engine
	svc     NoteService
	logger  *slog.Logger
	config  Config
	metrics *metrics
}

// New creates a Server. A nil registry gets a fresh one, so metrics from
// several servers in one process do not collide.
func New(svc NoteService, logger *slog.Logger, cfg Config, reg *prometheus.Registry) (*Server, error) {
	if svc == nil {
		return nil, errors.New("note service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = "localhost:3000"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:  gin.New(),
		svc:     svc,
		logger:  logger,
		config:  cfg,
		metrics: newMetrics(reg),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestID())
	s.engine.Use(s.requestLogger())
	s.engine.Use(cors(cfg.CORSOrigins))

	s.registerRoutes(reg)
	return s, nil
}

func (s *Server) registerRoutes(reg *prometheus.Registry) {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Path used by the browser extension.
	s.engine.POST("/save-text", s.handleCapture)

	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/captures", s.handleCapture)
		v1.GET("/notes", s.handleListNotes)
		v1.GET("/notes/:id", s.handleGetNote)
	}
}

// Handler returns the http.Handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
