package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vantrel/medscan/internal/api"
	"github.com/vantrel/medscan/internal/config"
	"github.com/vantrel/medscan/internal/infrastructure"
	"github.com/vantrel/medscan/pkg/module"
)

// Server owns the HTTP listener and the infrastructure lifecycle.
type Server struct {
	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	http   *http.Server
	logger *slog.Logger
}

// NewServer constructs the server: infrastructure, API module, and router.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	infra, err := infrastructure.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("infrastructure: %w", err)
	}

	router := module.NewRouter()
	router.Mount(api.NewModule(cfg, infra))
	registerHealth(router, infra)

	return &Server{
		cfg:   cfg,
		infra: infra,
		http: &http.Server{
			Addr:    cfg.Server.Addr(),
			Handler: router,
		},
		logger: logger.With("system", "server"),
	}, nil
}

// Start brings up the infrastructure and begins serving.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}

	go func() {
		s.logger.Info("listening", "addr", s.http.Addr, "environment", s.cfg.Environment)

		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("listener failed", "error", err)
		}
	}()

	return nil
}

// Shutdown drains the listener, then runs infrastructure shutdown hooks.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("listener drain failed", "error", err)
	}

	return s.infra.Lifecycle.Shutdown(timeout)
}
