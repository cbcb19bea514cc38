// Package jobs runs background maintenance on a single worker goroutine.
// Scheduled work is triggered by cron expressions.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"intakebridge/internal/platform/idempotency"
)

const JobFlowGuardSweep = "flow_guard_sweep"

type Service struct {
	sweeper  idempotency.Sweeper
	schedule string
	now      func() time.Time
	queue    chan job
	cron     *cron.Cron
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

// New returns a service that sweeps expired flow guard rows on schedule. A
// nil sweeper or an empty schedule disables the sweep.
func New(sweeper idempotency.Sweeper, schedule string) *Service {
	return &Service{
		sweeper:  sweeper,
		schedule: strings.TrimSpace(schedule),
		now:      time.Now,
		queue:    make(chan job, 128),
	}
}

// ParseSchedule validates a 5-field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}
	return sched, nil
}

func (s *Service) Start(ctx context.Context) error {
	go s.worker(ctx)
	if s.sweeper == nil || s.schedule == "" {
		slog.Info("flow guard sweep disabled")
		return nil
	}
	sched, err := ParseSchedule(s.schedule)
	if err != nil {
		return err
	}
	s.cron = cron.New()
	s.cron.Schedule(sched, cron.FuncJob(func() {
		s.Enqueue(JobFlowGuardSweep, s.sweep)
	}))
	s.cron.Start()
	slog.Info("flow guard sweep scheduled", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
	}()
	return nil
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// Sweep purges expired flow guard rows immediately.
func (s *Service) Sweep(ctx context.Context) (any, error) {
	return s.RunNow(ctx, JobFlowGuardSweep, s.sweep)
}

func (s *Service) sweep(ctx context.Context) (any, error) {
	if s.sweeper == nil {
		return map[string]any{"purged": int64(0)}, nil
	}
	purged, err := s.sweeper.PurgeExpired(ctx, s.now())
	return map[string]any{"purged": purged}, err
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	started := s.now()
	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	slog.Info("job run", "jobType", j.Type, "status", status, "durationMs", s.now().Sub(started).Milliseconds(), "details", details)
	return details, err
}
