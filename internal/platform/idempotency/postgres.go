package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
    CREATE TABLE IF NOT EXISTS flow_guard (
      key TEXT PRIMARY KEY,
      expires_at TIMESTAMPTZ NOT NULL,
      created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
    CREATE INDEX IF NOT EXISTS flow_guard_expires_at_idx ON flow_guard (expires_at);
  `)
	return err
}

func (s *Postgres) Seen(ctx context.Context, key string) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	var one int
	err := s.db.QueryRow(ctx, `
    SELECT 1
    FROM flow_guard
    WHERE key = $1 AND expires_at > now()
  `, key).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Postgres) Mark(ctx context.Context, key string, ttl time.Duration) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(ctx, `
    INSERT INTO flow_guard (key, expires_at)
    VALUES ($1, now() + make_interval(secs => $2))
    ON CONFLICT (key)
    DO UPDATE SET expires_at = EXCLUDED.expires_at
  `, key, ttl.Seconds())
	return err
}

func (s *Postgres) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM flow_guard WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
