package cache

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/samarth-project/samarth/internal/model"
)

// SQLiteSnapshot persists cache entries in a local SQLite database.
type SQLiteSnapshot struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteSnapshot, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteSnapshot{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS query_cache (
	key       TEXT PRIMARY KEY,
	response  TEXT NOT NULL,
	stored_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_query_cache_stored_at ON query_cache(stored_at);
`

func (s *SQLiteSnapshot) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteSnapshot) Load(ctx context.Context) (map[string]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, response, stored_at FROM query_cache`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load cache")
	}
	defer rows.Close()

	entries := map[string]Entry{}
	for rows.Next() {
		var e Entry
		var responseJSON string
		if err := rows.Scan(&e.Key, &responseJSON, &e.StoredAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan cache entry")
		}
		e.Response = &model.Response{}
		if err := json.Unmarshal([]byte(responseJSON), e.Response); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal cached response")
		}
		entries[e.Key] = e
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: load cache iterate")
}

func (s *SQLiteSnapshot) Store(ctx context.Context, e Entry) error {
	responseJSON, err := json.Marshal(e.Response)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal response")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO query_cache (key, response, stored_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET response = excluded.response, stored_at = excluded.stored_at`,
		e.Key, string(responseJSON), e.StoredAt,
	)
	return eris.Wrap(err, "sqlite: store cache entry")
}

func (s *SQLiteSnapshot) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM query_cache WHERE key = ?`, key)
	return eris.Wrap(err, "sqlite: delete cache entry")
}

func (s *SQLiteSnapshot) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM query_cache`)
	return eris.Wrap(err, "sqlite: clear cache")
}

func (s *SQLiteSnapshot) Close() error {
	return s.db.Close()
}
