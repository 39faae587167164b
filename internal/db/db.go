// Package db implements the domain repositories on PostgreSQL with pgx.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"time"

	"github.com/Flarenzy/netreconciler/internal/domain"
	"github.com/Rican7/retry"
	"github.com/Rican7/retry/backoff"
	"github.com/Rican7/retry/strategy"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectAttempts = 10
	connectBackoff  = 500 * time.Millisecond
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// NewPool connects to dsn and waits, with a linear backoff, until the
// database answers a ping.
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	err = retry.Retry(
		func(attempt uint) error {
			if err := pool.Ping(ctx); err != nil {
				logger.Warn("database not ready", "attempt", attempt, "err", err.Error())
				return err
			}
			return nil
		},
		strategy.Limit(connectAttempts),
		func(uint) bool { return ctx.Err() == nil },
		strategy.Backoff(backoff.Linear(connectBackoff)),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}

// Repositories returns the postgres implementation of every domain repository.
func Repositories(db DBTX) domain.Repositories {
	return domain.Repositories{
		Networks: NewNetworkRepository(db),
		Subnets:  NewSubnetRepository(db),
		Ports:    NewPortRepository(db),
		Nodes:    NewNodeRepository(db),
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// mapError translates constraint violations into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if isNoRows(err) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	case "23503", "23514", "22P02":
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.Message)
	}
	return err
}

func nullAddr(addr netip.Addr) *netip.Addr {
	if !addr.IsValid() {
		return nil
	}
	return &addr
}

func derefAddr(addr *netip.Addr) netip.Addr {
	if addr == nil {
		return netip.Addr{}
	}
	return *addr
}
