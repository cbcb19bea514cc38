package server

import (
	"context"
	"log/slog"

	"intakebridge/internal/platform/config"
	"intakebridge/internal/platform/db"
	"intakebridge/internal/platform/idempotency"
)

// guardBackend is the flow guard store picked by FLOW_GUARD_BACKEND. Only
// the SQL stores need a sweeper.
type guardBackend struct {
	store   idempotency.Store
	sweeper idempotency.Sweeper
	ping    func(ctx context.Context) error
	close   func()
}

// openGuard never fails startup: a backend that cannot be reached is logged
// and replaced by the null store, and readiness reports the cause.
func openGuard(ctx context.Context, cfg config.Config) guardBackend {
	backend, err := connectGuard(ctx, cfg)
	if err != nil {
		slog.Warn("flow guard unavailable, duplicates will not be suppressed", "backend", cfg.FlowGuardBackend, "err", err)
		return guardBackend{
			store: idempotency.Null{},
			ping:  func(context.Context) error { return err },
		}
	}
	slog.Info("flow guard ready", "backend", cfg.FlowGuardBackend, "ttl", cfg.FlowGuardTTL.String())
	return backend
}

func connectGuard(ctx context.Context, cfg config.Config) (guardBackend, error) {
	switch cfg.FlowGuardBackend {
	case config.GuardRedis:
		store, err := idempotency.NewRedis(ctx, idempotency.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return guardBackend{}, err
		}
		return guardBackend{
			store: store,
			ping:  store.Ping,
			close: func() { _ = store.Close() },
		}, nil

	case config.GuardPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return guardBackend{}, err
		}
		store := idempotency.NewPostgres(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return guardBackend{}, err
		}
		return guardBackend{
			store:   store,
			sweeper: store,
			ping:    store.Ping,
			close:   pool.Close,
		}, nil

	case config.GuardSQLite:
		store, err := idempotency.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return guardBackend{}, err
		}
		return guardBackend{
			store:   store,
			sweeper: store,
			ping:    store.Ping,
			close:   func() { _ = store.Close() },
		}, nil
	}
	return guardBackend{store: idempotency.Null{}}, nil
}
