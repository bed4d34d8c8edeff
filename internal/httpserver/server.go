// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

// Package httpserver runs an http.Handler on a TCP listener with graceful shutdown.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"
)

// Server owns one listener and the http.Server serving it.
type Server struct {
	name       string
	addr       string
	handler    http.Handler
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// New creates a stopped server. name labels log records and errors.
// addr is "host:port"; use port 0 to pick a free port.
func New(name, addr string, handler http.Handler) *Server {
	return &Server{name: name, addr: addr, handler: handler}
}

// Start listens on the configured address and serves in the background.
// Serve failures are delivered on the returned channel, which is closed when the server stops.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Code("SERVER_RUNNING").With("server", s.name).Errorf("%s server already running", s.name)
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.Code("SERVER_LISTEN_FAILED").
			With("server", s.name).
			With("addr", s.addr).
			Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server error", "server", s.name, "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("server started", "server", s.name, "addr", listener.Addr().String())
	return errCh, nil
}

// Stop shuts the server down gracefully. Stopping a server that is not running is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.running.Store(true)
		return oops.With("server", s.name).With("operation", "shutdown").Wrap(err)
	}
	slog.Info("server stopped", "server", s.name)
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
