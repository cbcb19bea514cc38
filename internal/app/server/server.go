package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intakebridge/internal/domain/intake"
	"intakebridge/internal/domain/shifts"
	"intakebridge/internal/integrations/monday"
	"intakebridge/internal/integrations/winteam"
	"intakebridge/internal/platform/config"
	"intakebridge/internal/platform/crypto"
	"intakebridge/internal/platform/httpx"
	"intakebridge/internal/platform/idempotency"
	"intakebridge/internal/platform/jobs"
	"intakebridge/internal/platform/metrics"
	intakehandler "intakebridge/internal/transport/http/handlers/intake"
	opshandler "intakebridge/internal/transport/http/handlers/ops"
)

type App struct {
	Config  config.Config
	Router  http.Handler
	Metrics *metrics.Collector
	Guard   *idempotency.Guard
	Jobs    *jobs.Service
	closers []func()
}

type options struct {
	now        func() time.Time
	httpClient *http.Client
}

type Option func(*options)

// WithClock fixes the clock used for "today" in shift lookups and dedupe
// keys.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	board, err := config.LoadBoard(cfg.BoardConfigPath)
	if err != nil {
		return nil, err
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = httpx.NewClient(cfg.UpstreamTimeout)
	}
	employees := winteam.New(winteam.Config{
		EmployeeURL: cfg.WinTeamEmployeeURL,
		ShiftsURL:   cfg.WinTeamShiftsURL,
		TenantID:    cfg.WinTeamTenantID,
		APIKey:      cfg.WinTeamAPIKey,
	}, httpClient)
	boardClient := monday.New(cfg.MondayAPIURL, cfg.MondayAPIKey, httpClient)
	if !employees.Configured() {
		slog.Warn("winteam credentials missing, lookups will fail")
	}
	if !boardClient.Configured() {
		slog.Warn("monday api key missing, board writes will fail")
	}

	hasher, err := crypto.NewKeyHasher(cfg.FlowGuardKeySecret)
	if err != nil {
		return nil, err
	}

	backend := openGuard(ctx, cfg)
	app := &App{
		Config:  cfg,
		Metrics: metrics.New(),
		Guard:   idempotency.NewGuard(backend.store, cfg.FlowGuardTTL, idempotency.WithKeyFunc(hasher.Hash)),
		Jobs:    jobs.New(backend.sweeper, cfg.FlowGuardSweepSchedule),
	}
	if backend.close != nil {
		app.closers = append(app.closers, backend.close)
	}

	shiftService := shifts.NewService(employees, o.now)
	intakeService := intake.NewService(intake.Deps{
		Employees: employees,
		Shifts:    shiftService,
		Board:     boardClient,
		Guard:     app.Guard,
		Metrics:   app.Metrics,
		Now:       o.now,
	}, intake.Config{
		BoardID:   cfg.MondayBoardID,
		Columns:   board.Columns,
		Directory: board.Directory,
	})

	checks := map[string]opshandler.Check{}
	if backend.ping != nil {
		checks["flowGuard"] = backend.ping
	}
	ops := &opshandler.Handler{
		Bindings:       cfg.Bindings(),
		Metrics:        app.Metrics,
		MetricsEnabled: cfg.MetricsEnabled,
		Checks:         checks,
	}
	app.Router = NewRouter(cfg, app.Metrics, ops, intakehandler.NewHandler(intakeService, shiftService))
	return app, nil
}

// Start runs the background jobs until ctx is done.
func (a *App) Start(ctx context.Context) error {
	return a.Jobs.Start(ctx)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func Run() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Start(ctx); err != nil {
		slog.Error("jobs start failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("intake bridge listening", "addr", cfg.Addr, "env", cfg.Environment, "flowGuard", cfg.FlowGuardBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		slog.Error("server failed", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
	}
	slog.Info("server stopped")
}
