package cron

import (
	"context"
	"errors"
	"time"

	"github.com/lockwise/lockshop-backend/pkg/logger"
	"github.com/lockwise/lockshop-backend/pkg/metrics"
)

const defaultInterval = 24 * time.Hour

// ServiceParams configure the cron service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
}

// Service drains the registry once per interval, guarded by a
// distributed lock so only one worker instance sweeps at a time.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.CronJobMetrics
	interval time.Duration
}

// NewService builds a cron service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, errors.New("cron service requires a logger")
	}
	if params.Lock == nil {
		return nil, errors.New("cron service requires a lock")
	}
	svc := &Service{
		logg:     params.Logger,
		registry: params.Registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: params.Interval,
	}
	if svc.registry == nil {
		svc.registry = NewRegistry()
	}
	if svc.interval <= 0 {
		svc.interval = defaultInterval
	}
	return svc, nil
}

// Run sweeps immediately, then on every tick until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron service stopping")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs every registered job once. Job failures are recorded and
// logged but never abort the rest of the sweep.
func (s *Service) sweep(ctx context.Context) {
	held, err := s.lock.Acquire(ctx)
	if err != nil {
		s.logg.Error(ctx, "failed to acquire cron lock", err)
		return
	}
	if !held {
		s.logg.Info(ctx, "cron lock held elsewhere, skipping sweep")
		return
	}
	defer func() {
		if err := s.lock.Release(ctx); err != nil {
			s.logg.Error(ctx, "failed to release cron lock", err)
		}
	}()

	s.logg.Info(ctx, "sweep starting")
	for _, job := range s.registry.Jobs() {
		jobCtx := s.logg.WithFields(ctx, map[string]any{
			"job":   job.Name(),
			"event": "cron.job",
		})
		s.logg.Info(jobCtx, "job start")

		started := time.Now()
		runErr := job.Run(jobCtx)
		elapsed := time.Since(started)

		s.record(job.Name(), elapsed, runErr)
		jobCtx = s.logg.WithField(jobCtx, "duration_ms", elapsed.Milliseconds())
		if runErr != nil {
			s.logg.Error(jobCtx, "job failed", runErr)
			continue
		}
		s.logg.Info(jobCtx, "job completed")
	}
	s.logg.Info(ctx, "sweep complete")
}

func (s *Service) record(job string, elapsed time.Duration, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(job, elapsed)
	if err != nil {
		s.metrics.IncFailure(job)
		return
	}
	s.metrics.IncSuccess(job)
}
