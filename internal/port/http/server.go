package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/joshd12blip/Cleanout-Market/internal/app/config"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
)

type Server struct {
	httpServer *http.Server
	log        logger.Logger
	port       string
}

func NewServer(log logger.Logger, cfg config.HTTPServerConfig, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.Port),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			// countdown streams stay open, so WriteTimeout is usually left at zero
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log:  log,
		port: cfg.Port,
	}
}

func (s *Server) Start() error {
	s.log.Infof("HTTP server is starting on port %s", s.port)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed to serve: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("HTTP server is stopping gracefully")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Warn("graceful shutdown timed out, forcing stop")
		_ = s.httpServer.Close()
		return err
	}
	s.log.Info("HTTP server stopped gracefully")
	return nil
}
