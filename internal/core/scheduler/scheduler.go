// Package scheduler drives the pipeline at a configurable cadence.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

const secondsPerDay = 86400

// IntervalSeconds converts a runs-per-day setting into a sleep interval.
// A zero setting means "run once and exit" and yields 0. Sub-second
// precision is not a goal; the result is truncated to whole seconds.
func IntervalSeconds(runsPerDay float64) int {
	if runsPerDay == 0 {
		return 0
	}
	return int(secondsPerDay / runsPerDay)
}

// NextRunTime returns the wall-clock time of the next run. It is purely
// informational; crossing midnight does not truncate or split an interval.
func NextRunTime(now time.Time, interval time.Duration) time.Time {
	return now.Add(interval)
}

// CrossesMidnight reports whether the interval starting at now ends on a
// later calendar day. Only used to flavor the "next run at" log line.
func CrossesMidnight(now time.Time, interval time.Duration) bool {
	next := now.Add(interval)
	return next.YearDay() != now.YearDay() || next.Year() != now.Year()
}

// RunFunc executes one pipeline run. The bool reports whether the run
// succeeded; a non-nil error means run state can no longer be recorded
// and the scheduler must stop.
type RunFunc func(ctx context.Context) (bool, error)

// Scheduler loops: run pipeline, sleep, repeat. Exactly one run is ever in
// flight; the loop body is strictly sequential.
type Scheduler struct {
	interval time.Duration
	run      RunFunc
	logger   *slog.Logger

	// now and sleep are swappable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

// New creates a scheduler with the given inter-run interval. An interval of
// zero makes Run execute the pipeline exactly once.
func New(interval time.Duration, run RunFunc, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		run:      run,
		logger:   logger,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Run executes the scheduling loop until ctx is cancelled or a run
// returns an error. Cancellation is observed during the inter-run sleep
// and between iterations, never mid-stage: a long-running stage relies on
// its own timeout.
//
// A failed run never shortens or skips the wait. A run error means state
// tracking is broken, so the loop stops and hands the error to the caller.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval == 0 {
		s.logger.Info("running pipeline once and exiting")
		_, err := s.run(ctx)
		return err
	}

	s.logger.Info("scheduler started", "interval", s.interval.String())

	for {
		ok, err := s.run(ctx)
		if err != nil {
			s.logger.Error("stopping scheduler", "error", err.Error())
			return err
		}
		if !ok {
			s.logger.Warn("pipeline run reported failure")
		}

		next := NextRunTime(s.now(), s.interval)
		if CrossesMidnight(s.now(), s.interval) {
			s.logger.Info("next run at", "time", next.Format("2006-01-02 15:04:05"), "note", "after midnight")
		} else {
			s.logger.Info("next run at", "time", next.Format("2006-01-02 15:04:05"))
		}

		if !s.sleep(ctx, s.interval) {
			s.logger.Info("scheduler stopped")
			return nil
		}

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		default:
		}
	}
}

// sleepCtx sleeps for d or until ctx is cancelled. Returns false when
// cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
