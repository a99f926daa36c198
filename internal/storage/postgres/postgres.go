// Package postgres stores encounter documents in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/tracker/internal/config"
)

// EncountersTable is the table created by the encounters migration.
const EncountersTable = "encounters"

// ErrSchemaMissing reports a reachable database whose encounters table has not
// been created yet.
var ErrSchemaMissing = errors.New("encounters table missing, run the migrate command first")

// Pool owns the connection pool behind an EncounterRepository.
type Pool struct {
	pool *pgxpool.Pool
	cfg  config.DatabaseConfig
}

// NewPool connects to the database described by cfg.
//
// cfg.ConnectTimeout bounds every dial and the initial ping; zero leaves both
// bounded by ctx alone.
//
// Postcondition: Returns a pool that answered a ping, or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	p := &Pool{pool: pool, cfg: cfg}
	if err := p.ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return p, nil
}

// Ready reports whether the database answers and holds the encounters table.
//
// Postcondition: Returns ErrSchemaMissing when the server is reachable but
// the migrations have not been applied.
func (p *Pool) Ready(ctx context.Context) error {
	if err := p.ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	var present bool
	err := p.pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, EncountersTable).Scan(&present)
	if err != nil {
		return fmt.Errorf("checking schema: %w", err)
	}
	if !present {
		return ErrSchemaMissing
	}
	return nil
}

// Encounters returns a repository over this pool.
func (p *Pool) Encounters() *EncounterRepository {
	return NewEncounterRepository(p.pool)
}

// Close releases all pool resources.
//
// Postcondition: The pool is no longer usable after calling Close.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}

func (p *Pool) ping(ctx context.Context) error {
	if p.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ConnectTimeout)
		defer cancel()
	}
	return p.pool.Ping(ctx)
}
