// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/hoshizora-labs/animerec/internal/config"
)

// Server runs the HTTP listener as a supervised service. Serve blocks until
// the supervisor cancels the context, then shuts down gracefully.
type Server struct {
	cfg     config.ServerConfig
	handler http.Handler
	log     zerolog.Logger
}

var _ suture.Service = (*Server)(nil)

// NewServer creates the supervised HTTP server.
func NewServer(cfg config.ServerConfig, handler http.Handler, log zerolog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		handler: handler,
		log:     log.With().Str("component", "http").Logger(),
	}
}

// Serve implements suture.Service.
func (s *Server) Serve(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.Timeout,
		WriteTimeout:      s.cfg.Timeout,
		IdleTimeout:       2 * s.cfg.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn().Err(err).Msg("Graceful shutdown failed, closing")
		_ = srv.Close()
	}
	s.log.Info().Msg("HTTP server stopped")
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logging.
func (s *Server) String() string {
	return "http-server"
}
