package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Domenick1991/flightdata/config"
	"github.com/Domenick1991/flightdata/internal/catalog"
	"github.com/Domenick1991/flightdata/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const pingTimeout = 5 * time.Second

// Store is the process-wide handle on the backing database. It is safe for concurrent
// use and must be released with Close.
type Store struct {
	db      *sql.DB
	pool    *pgxpool.Pool
	dialect catalog.Dialect
}

// Open connects to the configured database and verifies it answers. Failures wrap
// domain.ErrServiceUnavailable.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	var (
		s   *Store
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		s, err = openSQLite(cfg.DSN())
	case "postgres":
		s, err = openPostgres(ctx, cfg.DSN())
	default:
		err = fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", domain.ErrServiceUnavailable, cfg.Driver, err)
	}
	return s, nil
}

func openSQLite(path string) (*Store, error) {
	path = strings.TrimPrefix(path, "sqlite:///")
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	// The dataset is owned elsewhere; never create an empty file in its place.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlite database %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=query_only(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &Store{db: db, dialect: catalog.SQLite}, nil
}

func openPostgres(ctx context.Context, dsn string) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{db: stdlib.OpenDBFromPool(pool), pool: pool, dialect: catalog.Postgres}, nil
}

func (s *Store) Dialect() catalog.Dialect {
	return s.dialect
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle and, for postgres, the underlying pool.
func (s *Store) Close() error {
	err := s.db.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}
