package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// StageFunc is the body of one pipeline stage.
type StageFunc func(ctx context.Context) error

// StageResult reports how one stage ended.
type StageResult struct {
	Step     string
	Err      error
	Panicked bool
	Duration time.Duration
}

// Failed reports whether the stage ended in error.
func (r StageResult) Failed() bool {
	return r.Err != nil
}

// runStage executes fn under its own deadline. A panic inside the stage is
// converted into an error carrying the stack so one bad stage cannot take
// down the scheduler loop.
func runStage(ctx context.Context, logger *slog.Logger, step string, timeout time.Duration, fn StageFunc) (result StageResult) {
	result.Step = step
	start := time.Now()

	stageCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Info("stage started", "step", step)

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Panicked = true
			result.Err = fmt.Errorf("stage %s panicked: %v\n%s", step, r, debug.Stack())
		}
		if result.Err != nil {
			logger.Error("stage failed", "step", step, "duration", result.Duration.String(), "error", result.Err.Error())
		} else {
			logger.Info("stage completed", "step", step, "duration", result.Duration.String())
		}
	}()

	result.Err = fn(stageCtx)
	if result.Err == nil && stageCtx.Err() != nil {
		result.Err = fmt.Errorf("stage %s interrupted: %w", step, stageCtx.Err())
	}
	return result
}
