// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Job is a periodically invoked sync run with a hard wall-clock ceiling.
// Exceeding MaxDuration cancels the run's context and counts as a fatal run
// failure, never a graceful partial completion.
type Job struct {
	Name        string
	Interval    time.Duration
	MaxDuration time.Duration
	Run         func(ctx context.Context) error
}

// Scheduler fires jobs on a fixed interval. It owns failure surfacing: a
// failed or timed-out run is logged and the next tick retries the full
// snapshot cleanly. Order and product sync are scheduled as independent
// jobs and may overlap each other.
type Scheduler struct {
	logger *slog.Logger
	lock   RunLocker
}

// NewScheduler creates a scheduler. A nil lock disables single-flight
// protection (fine for single-replica deployments).
func NewScheduler(logger *slog.Logger, lock RunLocker) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if lock == nil {
		lock = noopLocker{}
	}
	return &Scheduler{logger: logger, lock: lock}
}

// Start launches the job loop in a goroutine; it stops when ctx is
// cancelled. The first run fires after one interval.
func (s *Scheduler) Start(ctx context.Context, job Job) {
	go func() {
		ticker := time.NewTicker(job.Interval)
		defer ticker.Stop()

		s.logger.Info("Scheduled sync job", "job", job.Name, "interval", job.Interval, "max_duration", job.MaxDuration)
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Stopping sync job", "job", job.Name)
				return
			case <-ticker.C:
				s.RunOnce(ctx, job)
			}
		}
	}()
}

// RunOnce executes a single invocation of the job: acquire the run lock,
// bound the run with MaxDuration, and log the outcome. Returns the run
// error, nil on success or when another replica holds the lock.
func (s *Scheduler) RunOnce(ctx context.Context, job Job) error {
	release, ok, err := s.lock.Acquire(ctx, job.Name, lockTTL(job.MaxDuration))
	if err != nil {
		s.logger.Error("Run lock acquisition failed", "job", job.Name, "error", err)
		return err
	}
	if !ok {
		s.logger.Info("Skipping run, another replica holds the lock", "job", job.Name)
		return nil
	}
	defer release(ctx)

	runCtx := ctx
	if job.MaxDuration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, job.MaxDuration)
		defer cancel()
	}

	start := time.Now()
	err = job.Run(runCtx)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		s.logger.Info("Sync run finished", "job", job.Name, "duration", elapsed)
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Error("Sync run exceeded max duration", "job", job.Name, "max_duration", job.MaxDuration, "duration", elapsed)
	default:
		s.logger.Error("Sync run failed", "job", job.Name, "duration", elapsed, "error", err)
	}
	return err
}

// lockTTL pads the lock expiry past the run ceiling so a crashed holder
// cannot wedge the schedule for long.
func lockTTL(maxDuration time.Duration) time.Duration {
	if maxDuration <= 0 {
		return 10 * time.Minute
	}
	return maxDuration + 30*time.Second
}
