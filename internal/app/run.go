// Package app wires configuration, storage, the reconcile loop and the HTTP
// API into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/Flarenzy/netreconciler/internal/auth"
	"github.com/Flarenzy/netreconciler/internal/db"
	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/Flarenzy/netreconciler/internal/driver"
	apihttp "github.com/Flarenzy/netreconciler/internal/http"
	"github.com/Flarenzy/netreconciler/internal/memstore"
	"github.com/Flarenzy/netreconciler/internal/reconcile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	defaultReconcileInterval = 30 * time.Second
	shutdownTimeout          = 5 * time.Second
)

type store struct {
	repos  domain.Repositories
	health apihttp.HealthChecker
	close  func()
}

type memoryHealth struct{}

func (memoryHealth) Ping(context.Context) error { return nil }

func openStore(ctx context.Context, cfg Config, logger *slog.Logger) (store, error) {
	if cfg.Store == StoreMemory {
		s, err := memstore.New()
		if err != nil {
			return store{}, fmt.Errorf("create memory store: %w", err)
		}
		return store{repos: s.Repositories(), health: memoryHealth{}, close: func() {}}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DSN, logger)
	if err != nil {
		return store{}, err
	}
	return store{repos: db.Repositories(pool), health: pool, close: pool.Close}, nil
}

func newAuthenticator(ctx context.Context, cfg Config) (auth.Authenticator, error) {
	return auth.NewKeycloakAuthenticator(ctx, auth.Config{
		Enabled:  cfg.AuthEnabled,
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		JWKSURL:  cfg.JWKSURL,
	})
}

func newReconciler(logger *slog.Logger, repos domain.Repositories, reg prometheus.Registerer) *reconcile.NetworkReconciler {
	return reconcile.NewNetworkReconciler(logger, repos, driver.NewRegistry(logger), reconcile.NewMetrics(reg))
}

func newLogger(cfg Config) (*slog.Logger, error) {
	return NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// Run listens on cfg.Port and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
	}
	return Serve(ctx, cfg, listener)
}

// Serve runs the reconcile loop and the HTTP API on listener until ctx is
// cancelled. Startup fails before anything is served when the authenticator
// or the store cannot be initialized.
func Serve(ctx context.Context, cfg Config, listener net.Listener) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	authenticator, err := newAuthenticator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init authenticator: %w", err)
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	interval := cfg.ReconcileInterval
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	scheduler := NewScheduler(logger, interval, newReconciler(logger, st.repos, registry))

	service := domain.NewLoggingNetworkService(logger, domain.NewNetworkService(st.repos))
	api := apihttp.NewAPI(logger, st.health, service, authenticator).WithMetrics(registry)

	server := &http.Server{
		Handler:      api.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	scheduler.Start(ctx)
	defer scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving http", "addr", listener.Addr().String())
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// ReconcileOnce runs a single reconciliation iteration against the
// configured store.
func ReconcileOnce(ctx context.Context, cfg Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	return newReconciler(logger, st.repos, nil).Reconcile(ctx)
}

// Migrate applies the embedded schema migrations to the configured database.
func Migrate(ctx context.Context, cfg Config) error {
	if cfg.Store == StoreMemory {
		return errors.New("migrate requires the postgres store")
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	pool, err := db.NewPool(ctx, cfg.DSN, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	return db.Migrate(ctx, pool, logger)
}
