// Package server runs the HTTP hint service.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	apihttp "github.com/vovakirdan/disk-solitaire/internal/api/http"
	"github.com/vovakirdan/disk-solitaire/internal/api/ws"
	"github.com/vovakirdan/disk-solitaire/internal/config"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/levels"
	"github.com/vovakirdan/disk-solitaire/internal/session"
	"github.com/vovakirdan/disk-solitaire/internal/storage"
)

// Server wraps the gin router, the session manager and the solution store.
type Server struct {
	config   config.Config
	server   *http.Server
	store    *storage.Store
	sessions *session.Manager
	logger   *log.Logger
}

// New creates a server for the levels in reg.
func New(cfg config.Config, reg *levels.Registry, logger *log.Logger) (*Server, error) {
	if reg == nil {
		return nil, errors.New("server: no level registry")
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "disks-http",
			Level:           cfg.LogLevel(),
		})
	}

	// Open storage
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open solutions database", "error", err)
		// Continue without storage
	}

	sessions := session.NewManager(reg, session.Config{
		TTL:           cfg.Server.SessionTTL,
		CleanupPeriod: cfg.Server.CleanupPeriod,
		AutoHint:      cfg.Solver.AutoHint,
		MaxStates:     cfg.Solver.StateCap(),
	}, logger)
	if store != nil {
		sessions.SetCompletionSaver(store)
	}

	hub := ws.NewHub(sessions, cfg, logger)
	sessions.SetBroadcaster(hub)

	if cfg.LogLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := apihttp.NewRouter(sessions, store, hub, cfg, logger)

	return &Server{
		config: cfg,
		server: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:    store,
		sessions: sessions,
		logger:   logger,
	}, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Serve accepts connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.sessions.Start()
	s.logger.Info("starting HTTP server", "address", l.Addr().String())

	if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe starts the server and blocks until SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.config.Server.Addr)
	if err != nil {
		return err
	}

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve(l)
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		_ = s.Shutdown()
		return err
	}
}

// Shutdown gracefully stops the server and closes every session.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.sessions.Stop()
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}
