// Package server runs the optional read-only status API next to the timer.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmylchreest/huemodoro/internal/events"
	"github.com/jmylchreest/huemodoro/internal/http/handlers"
	"github.com/jmylchreest/huemodoro/internal/http/mw"
	"github.com/jmylchreest/huemodoro/internal/http/routes"
	"github.com/jmylchreest/huemodoro/internal/ws"
)

// Options configure the status server.
type Options struct {
	// Listen is the TCP address to bind, e.g. "127.0.0.1:8089".
	Listen    string
	Timer     handlers.StatusSource
	Bus       *events.Bus
	Version   handlers.VersionInfo
	RateLimit mw.RateLimitConfig
}

// Server serves the status API and the WebSocket event stream.
type Server struct {
	logger     *slog.Logger
	opts       Options
	hub        *ws.Hub
	router     chi.Router
	httpServer *http.Server
	listener   net.Listener
	rootCtx    context.Context
	rootCancel context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a server and builds its routes. Nothing listens until Start.
func New(logger *slog.Logger, opts Options) *Server {
	rootCtx, rootCancel := context.WithCancel(context.Background())
	s := &Server{
		logger:     logger,
		opts:       opts,
		rootCtx:    rootCtx,
		rootCancel: rootCancel,
	}
	s.hub = ws.NewHub(logger, opts.Bus, func() any {
		return handlers.StatusFromTimer(opts.Timer.Status(), time.Now())
	})
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	// Rate limiting runs at Chi level so it also covers the WebSocket route.
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(mw.RequestLogging(s.logger))
	router.Use(mw.RateLimitByIP(s.opts.RateLimit))

	api := humachi.New(router, routes.NewHumaConfig(s.opts.Version.Version, ""))
	routes.Register(api, &routes.Handlers{
		HealthCheck:  handlers.HealthCheck,
		VersionCheck: handlers.VersionCheck(s.opts.Version),
		Status:       &handlers.StatusHandler{Timer: s.opts.Timer},
	})

	router.Get("/api/v1/ws", ws.Handler(s.hub, s.logger))
	return router
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start binds the listen address and serves in the background. Bind errors
// are returned synchronously.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Listen, err)
	}
	s.listener = ln
	s.logger.Info("server: status API listening", "address", ln.Addr().String())

	s.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("server: panic in WebSocket hub", "recover", r)
			}
		}()
		s.hub.Run(s.rootCtx)
	})

	s.httpServer = &http.Server{
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: WebSocket connections are long-lived.
		IdleTimeout: 60 * time.Second,
	}
	s.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("server: panic in HTTP server goroutine", "recover", r)
			}
		}()
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server: HTTP server failed", "error", err)
		}
		s.logger.Info("server: HTTP server stopped")
	})
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	s.logger.Info("server: shutting down status API")
	s.rootCancel()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("server: HTTP server shutdown failed", "error", err)
		}
	}

	s.wg.Wait()
	s.logger.Info("server: status API stopped")
}
