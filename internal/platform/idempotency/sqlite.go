package idempotency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite suits single-node deployments and tests. Expiry is stored as unix
// seconds.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens path (":memory:" allowed) and creates the table.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection, so ":memory:" is a single database
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`
    CREATE TABLE IF NOT EXISTS flow_guard (
      key TEXT PRIMARY KEY,
      expires_at INTEGER NOT NULL
    );
    CREATE INDEX IF NOT EXISTS flow_guard_expires_at_idx ON flow_guard (expires_at);
  `)
	if err != nil {
		return fmt.Errorf("migrate flow_guard: %w", err)
	}
	return nil
}

func (s *SQLite) Seen(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM flow_guard WHERE key = ? AND expires_at > ?`,
		key, s.now().Unix(),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLite) Mark(ctx context.Context, key string, ttl time.Duration) error {
	expires := s.now().Add(ttl).Unix()
	_, err := s.db.ExecContext(ctx, `
    INSERT INTO flow_guard (key, expires_at) VALUES (?, ?)
    ON CONFLICT(key) DO UPDATE SET expires_at = excluded.expires_at
  `, key, expires)
	return err
}

func (s *SQLite) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM flow_guard WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
