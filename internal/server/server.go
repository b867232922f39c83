// Package server exposes the expression pipeline over HTTP so editors and web
// front-ends can preview generated expressions.
//
// Endpoints:
//
//	GET  /templates   known templates with their default file names
//	POST /render      render an expression from pipeline options (JSON)
//	GET  /stats       counters collected through observability hooks
//	GET  /healthz     liveness
//
// The server never writes files: every render request is forced to stdout
// mode, so only path resolution runs against the filesystem.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nix-template/pkg/pipeline"
)

// DefaultAddr is the listen address used when none is given.
const DefaultAddr = "127.0.0.1:8080"

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 5 * time.Second

// Server serves render previews.
type Server struct {
	runner     *pipeline.Runner
	stats      *Stats
	logger     *log.Logger
	httpServer *http.Server
}

// New creates a server listening on addr. stats may be nil, in which case
// /stats reports zeros.
func New(addr string, runner *pipeline.Runner, stats *Stats, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if stats == nil {
		stats = NewStats()
	}
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{runner: runner, stats: stats, logger: logger}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Starting preview server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down preview server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
