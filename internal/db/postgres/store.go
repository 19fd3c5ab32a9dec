package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/docdex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Postgres store.
type Config struct {
	// DSN is a libpq connection string or URL.
	DSN      string
	MaxConns int32
	MinConns int32
	// OpTimeout bounds every single statement, pool acquisition included.
	// Zero disables the per-operation deadline.
	OpTimeout time.Duration
}

// Store implements db.Store via a bounded pgx connection pool.
type Store struct {
	pool      *pgxpool.Pool
	opTimeout time.Duration
}

// NewStore creates a Postgres store.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	return &Store{pool: pool, opTimeout: cfg.OpTimeout}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.pool.Ping(ctx); err != nil {
		return wrapErr(db.OpPing, err)
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// schemaStatements create the docs table and its indexes. Every statement is
// idempotent, so "already exists" never surfaces as an error.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS docs (
		id         UUID PRIMARY KEY,
		label      TEXT NOT NULL,
		data       JSONB NOT NULL DEFAULT '{}'::jsonb,
		tags       TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS docs_label_idx ON docs (label)`,
	`CREATE INDEX IF NOT EXISTS docs_data_gin_idx ON docs USING GIN (data)`,
	`CREATE INDEX IF NOT EXISTS docs_tags_gin_idx ON docs USING GIN (tags)`,
	`CREATE INDEX IF NOT EXISTS docs_text_search_idx ON docs
		USING GIN (to_tsvector('simple', label || ' ' || data::text))`,
}

// EnsureSchema creates the docs table and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		stmtCtx, cancel := s.withTimeout(ctx)
		_, err := s.pool.Exec(stmtCtx, stmt)
		cancel()
		if err != nil {
			return wrapErr(db.OpSchema, err)
		}
	}
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}
