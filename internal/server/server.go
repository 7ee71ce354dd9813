package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jmylchreest/bulbctl/internal/config"
	"github.com/jmylchreest/bulbctl/internal/http/mw"
	"github.com/jmylchreest/bulbctl/internal/http/routes"
	"github.com/jmylchreest/bulbctl/internal/metrics"
	"github.com/jmylchreest/bulbctl/pkg/bulb"
)

// Server runs the exporter: a poller for one bulb and the HTTP listener
// serving its metrics.
type Server struct {
	logger     *slog.Logger
	cfg        *config.Config
	metrics    *metrics.Metrics
	poller     *Poller
	listener   net.Listener
	httpServer *http.Server
	rootCtx    context.Context
	rootCancel context.CancelFunc
	wg         sync.WaitGroup
}

// New creates an exporter for the bulb b, reachable at device. The bulb's
// client should report its exchanges to m.
func New(logger *slog.Logger, cfg *config.Config, m *metrics.Metrics, b *bulb.Bulb, device string) *Server {
	rootCtx, rootCancel := context.WithCancel(context.Background())

	return &Server{
		logger:     logger,
		cfg:        cfg,
		metrics:    m,
		poller:     NewPoller(logger, b, m, device, cfg.Exporter.Interval),
		rootCtx:    rootCtx,
		rootCancel: rootCancel,
	}
}

// Start binds the listen address and starts the poller and HTTP server.
func (s *Server) Start() error {
	s.logger.Info("Starting bulbctl exporter", "listen", s.cfg.Exporter.Listen, "interval", s.cfg.Exporter.Interval)

	var err error
	s.listener, err = net.Listen("tcp", s.cfg.Exporter.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Exporter.Listen, err)
	}

	limit := mw.ScrapeLimitPerMinute(s.cfg.Exporter.RateLimit)
	router := routes.NewRouter(s.logger, routes.Handlers{
		Metrics: s.metrics.Handler(),
		Status:  s.poller,
	}, limit)

	s.httpServer = &http.Server{
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in poller", "recover", r)
			}
		}()
		s.poller.Run(s.rootCtx)
	})

	s.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in HTTP server goroutine", "recover", r)
			}
		}()
		if err := s.httpServer.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server failed", "error", err)
		}
		s.logger.Info("HTTP server stopped")
	})

	s.logger.Info("Exporter listening", "address", s.Addr())
	return nil
}

// Addr returns the bound listen address, or "" before Start
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the exporter.
func (s *Server) Stop() {
	s.logger.Info("Shutting down bulbctl exporter")
	s.rootCancel()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown failed", "error", err)
		}
	}

	s.wg.Wait()
	s.logger.Info("Exporter shut down gracefully")
}
