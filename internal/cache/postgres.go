package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/samarth-project/samarth/internal/model"
)

// Pool is the subset of pgxpool.Pool the snapshot uses.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresSnapshot persists cache entries in a PostgreSQL table.
type PostgresSnapshot struct {
	pool Pool
}

// NewPostgres creates a PostgresSnapshot with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresSnapshot, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresSnapshot{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, typically a mock in tests.
func NewPostgresWithPool(pool Pool) *PostgresSnapshot {
	return &PostgresSnapshot{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS query_cache (
	key       TEXT PRIMARY KEY,
	response  JSONB NOT NULL,
	stored_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_query_cache_stored_at ON query_cache(stored_at);
`

func (s *PostgresSnapshot) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresSnapshot) Load(ctx context.Context) (map[string]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key, response, stored_at FROM query_cache`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load cache")
	}
	defer rows.Close()

	entries := map[string]Entry{}
	for rows.Next() {
		var e Entry
		var responseJSON []byte
		if err := rows.Scan(&e.Key, &responseJSON, &e.StoredAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan cache entry")
		}
		e.Response = &model.Response{}
		if err := json.Unmarshal(responseJSON, e.Response); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal cached response")
		}
		entries[e.Key] = e
	}
	return entries, eris.Wrap(rows.Err(), "postgres: load cache iterate")
}

func (s *PostgresSnapshot) Store(ctx context.Context, e Entry) error {
	responseJSON, err := json.Marshal(e.Response)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal response")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO query_cache (key, response, stored_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET response = excluded.response, stored_at = excluded.stored_at`,
		e.Key, responseJSON, e.StoredAt,
	)
	return eris.Wrap(err, "postgres: store cache entry")
}

func (s *PostgresSnapshot) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM query_cache WHERE key = $1`, key)
	return eris.Wrap(err, "postgres: delete cache entry")
}

func (s *PostgresSnapshot) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM query_cache`)
	return eris.Wrap(err, "postgres: clear cache")
}

func (s *PostgresSnapshot) Close() error {
	s.pool.Close()
	return nil
}
