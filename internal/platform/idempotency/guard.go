// Package idempotency suppresses repeated intake submissions. A Guard checks
// and marks dedupe keys against a Store; check-then-mark is not atomic, so
// suppression is best-effort.
package idempotency

import (
	"context"
	"strings"
	"time"

	"intakebridge/internal/requestctx"
)

const DefaultTTL = 86400 * time.Second

type Store interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string, ttl time.Duration) error
}

// Sweeper is implemented by stores that need expired rows removed.
type Sweeper interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type Guard struct {
	store   Store
	ttl     time.Duration
	keyFunc func(string) string
}

type GuardOption func(*Guard)

// WithKeyFunc rewrites every key before it reaches the store.
func WithKeyFunc(fn func(string) string) GuardOption {
	return func(g *Guard) { g.keyFunc = fn }
}

func NewGuard(store Store, ttl time.Duration, opts ...GuardOption) *Guard {
	if store == nil {
		store = Null{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	g := &Guard{store: store, ttl: ttl}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guard) storeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" || g.keyFunc == nil {
		return key
	}
	return g.keyFunc(key)
}

func (g *Guard) TTL() time.Duration {
	if g == nil {
		return DefaultTTL
	}
	return g.ttl
}

func (g *Guard) Store() Store {
	if g == nil {
		return Null{}
	}
	return g.store
}

// Seen reports whether key was marked within the TTL. Store failures are
// logged and reported as not seen.
func (g *Guard) Seen(ctx context.Context, key string) bool {
	if g == nil {
		return false
	}
	key = g.storeKey(key)
	if key == "" {
		return false
	}
	seen, err := g.store.Seen(ctx, key)
	if err != nil {
		requestctx.Logger(ctx).Warn("flow guard lookup failed", "key", key, "err", err)
		return false
	}
	return seen
}

// Mark records key for the guard TTL. Failures are logged and dropped.
func (g *Guard) Mark(ctx context.Context, key string) {
	if g == nil {
		return
	}
	key = g.storeKey(key)
	if key == "" {
		return
	}
	if err := g.store.Mark(ctx, key, g.ttl); err != nil {
		requestctx.Logger(ctx).Warn("flow guard mark failed", "key", key, "err", err)
	}
}

// Null never suppresses and never records.
type Null struct{}

func (Null) Seen(context.Context, string) (bool, error) { return false, nil }

func (Null) Mark(context.Context, string, time.Duration) error { return nil }
