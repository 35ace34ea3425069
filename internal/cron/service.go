package cron

import (
	"context"
	"fmt"
	"time"

	robfigcron "github.com/robfig/cron/v3"
	"go.uber.org/multierr"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/logger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/metrics"
)

const defaultSchedule = "@every 5m"

// ServiceParams configure the monitor service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Schedule string
}

// Service executes registered jobs on a cron schedule, one cycle at a time.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.CronJobMetrics
	schedule string
}

// NewService builds a monitor service. The schedule accepts standard
// five-field expressions and descriptors such as "@every 5m".
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	schedule := params.Schedule
	if schedule == "" {
		schedule = defaultSchedule
	}
	if _, err := robfigcron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid monitor schedule %q: %w", schedule, err)
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		schedule: schedule,
	}, nil
}

// Run executes one cycle immediately, then follows the schedule until the
// context is canceled. An in-flight cycle finishes before Run returns.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.cycle(ctx)

	scheduler := robfigcron.New()
	if _, err := scheduler.AddFunc(s.schedule, func() { s.cycle(ctx) }); err != nil {
		return fmt.Errorf("register monitor schedule: %w", err)
	}
	scheduler.Start()
	s.logg.Info(s.logg.WithField(ctx, "schedule", s.schedule), "stock monitor scheduled")

	<-ctx.Done()
	s.logg.Info(ctx, "stock monitor context canceled")
	<-scheduler.Stop().Done()
	return ctx.Err()
}

// RunOnce executes a single cycle and returns the combined job errors.
func (s *Service) RunOnce(ctx context.Context) error {
	return s.runCycle(ctx)
}

func (s *Service) cycle(ctx context.Context) {
	if err := s.runCycle(ctx); err != nil {
		s.logg.Error(ctx, "scheduled run failed", err)
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Info(ctx, "another monitor run holds the lock; skipping this cycle")
		s.metrics.IncSkipped()
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release monitor lock", relErr)
		}
	}()

	var errs error
	for _, job := range s.registry.Jobs() {
		if err := s.runJob(ctx, job); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", job.Name(), err))
		}
	}
	return errs
}

func (s *Service) runJob(ctx context.Context, job Job) error {
	jobCtx := s.logg.WithJob(ctx, job.Name())
	s.logg.Debug(jobCtx, "job start")
	start := time.Now()
	err := job.Run(jobCtx)
	duration := time.Since(start)
	s.metrics.ObserveDuration(job.Name(), duration)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		s.metrics.IncFailure(job.Name())
		return err
	}
	s.logg.Info(jobCtx, "job completed")
	s.metrics.IncSuccess(job.Name())
	return nil
}
