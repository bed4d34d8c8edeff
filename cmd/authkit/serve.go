// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/guns21/authkit/internal/auth"
	"github.com/guns21/authkit/internal/auth/postgres"
	"github.com/guns21/authkit/internal/config"
	"github.com/guns21/authkit/internal/httpapi"
	"github.com/guns21/authkit/internal/logging"
)

const (
	shutdownTimeout  = 5 * time.Second
	readinessTimeout = 2 * time.Second
)

// newServeCmd creates the serve subcommand.
func newServeCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the authentication API",
		Long: `Start the HTTP API (POST /api/login) and, unless --metrics-addr is empty,
the metrics and health endpoints. GET /api/users/{username}/roles is only
served with --expose-roles because it answers without authentication.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, deps)
		},
	}
}

// runServeWithDeps runs the service until a signal arrives, ctx is cancelled
// or a server fails. If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *Deps) error {
	deps = deps.withDefaults()

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger := logging.SetDefault(serviceName, version, cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			With("field", "database.url").
			Errorf("database.url (or DATABASE_URL) is required")
	}

	logger.Info("starting authkit",
		"http_addr", cfg.HTTP.Addr,
		"metrics_addr", cfg.Metrics.Addr,
		"scheme", cfg.Auth.Scheme,
	)

	db, err := deps.DatabaseFactory(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()
	logger.Info("connected to database")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var ready atomic.Bool
	var obsServer ObservabilityServer
	var obsErrCh <-chan error
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, func() bool {
			if !ready.Load() {
				return false
			}
			pingCtx, pingCancel := context.WithTimeout(ctx, readinessTimeout)
			defer pingCancel()
			return db.Ping(pingCtx) == nil
		})
	}

	repo := postgres.NewUserRepository(db)
	provider, err := newProvider(cfg, repo, logger, obsServer)
	if err != nil {
		return err
	}

	handlerOpts := []httpapi.HandlerOption{httpapi.WithLogger(logger)}
	if obsServer != nil {
		handlerOpts = append(handlerOpts, httpapi.WithRequestRecorder(obsServer.Metrics().RecordRequest))
	}
	var roles httpapi.RoleLister
	if cfg.HTTP.ExposeRoles {
		roles = repo
	}
	apiServer := deps.APIServerFactory(cfg.HTTP.Addr, httpapi.NewHandler(provider, roles, handlerOpts...).Routes())

	if obsServer != nil {
		obsErrCh, err = obsServer.Start()
		if err != nil {
			return oops.Code("SERVE_FAILED").With("component", "observability").Wrap(err)
		}
		logger.Info("observability server listening", "addr", obsServer.Addr())
	}

	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopServer(obsServer, "observability")
		return oops.Code("SERVE_FAILED").With("component", "api").Wrap(err)
	}
	ready.Store(true)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("authkit started")
	logger.Info("authkit ready", "http_addr", apiServer.Addr())

	var serveErr error
	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	case err, ok := <-apiErrCh:
		if ok && err != nil {
			serveErr = oops.Code("SERVE_FAILED").With("component", "api").Wrap(err)
		}
	case err, ok := <-obsErrCh:
		if ok && err != nil {
			serveErr = oops.Code("SERVE_FAILED").With("component", "observability").Wrap(err)
		}
	}

	ready.Store(false)
	stopServer(apiServer, "api")
	stopServer(obsServer, "observability")
	logger.Info("shutdown complete")
	return serveErr
}

// newProvider assembles the authentication provider from cfg.
// A non-nil obsServer receives per-attempt metrics.
func newProvider(cfg *config.Config, lookup auth.UserLookupService, logger *slog.Logger, obsServer ObservabilityServer) (*auth.Provider, error) {
	strategy, err := auth.NewStrategy(cfg.Auth.Scheme)
	if err != nil {
		return nil, err
	}
	policy, err := cfg.FormatPolicy()
	if err != nil {
		return nil, err
	}
	messages, err := cfg.Messages()
	if err != nil {
		return nil, err
	}

	opts := []auth.ProviderOption{
		auth.WithFormatPolicy(policy),
		auth.WithConcealUserNotFound(cfg.Auth.ConcealUserNotFound),
		auth.WithLogger(logger),
	}
	if messages != nil {
		opts = append(opts, auth.WithMessages(messages))
	}
	if obsServer != nil {
		opts = append(opts, auth.WithRecorder(obsServer.Metrics().RecordAttempt))
	}
	return auth.NewProvider(lookup, strategy, opts...)
}

type stopper interface {
	Stop(ctx context.Context) error
}

func stopServer(s stopper, name string) {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		slog.Warn("error stopping server", "server", name, "error", err)
	}
}
