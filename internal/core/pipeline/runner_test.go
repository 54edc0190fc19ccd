package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunStageSuccess(t *testing.T) {
	res := runStage(context.Background(), testLogger(), "download", time.Minute, func(ctx context.Context) error {
		return nil
	})
	if res.Failed() {
		t.Errorf("unexpected failure: %v", res.Err)
	}
	if res.Step != "download" {
		t.Errorf("step = %q", res.Step)
	}
}

func TestRunStageError(t *testing.T) {
	want := errors.New("boom")
	res := runStage(context.Background(), testLogger(), "download", time.Minute, func(ctx context.Context) error {
		return want
	})
	if !errors.Is(res.Err, want) {
		t.Errorf("err = %v, want %v", res.Err, want)
	}
	if res.Panicked {
		t.Error("plain error should not be marked as panic")
	}
}

func TestRunStageTimeout(t *testing.T) {
	res := runStage(context.Background(), testLogger(), "transcribe", 10*time.Millisecond, func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})
	if !res.Failed() {
		t.Fatal("expected timeout failure")
	}
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", res.Err)
	}
}

func TestRunStagePanicRecovered(t *testing.T) {
	res := runStage(context.Background(), testLogger(), "organize", time.Minute, func(ctx context.Context) error {
		panic("bad index")
	})
	if !res.Panicked {
		t.Fatal("panic not recorded")
	}
	if !strings.Contains(res.Err.Error(), "bad index") {
		t.Errorf("error should carry panic value, got %v", res.Err)
	}
	if !strings.Contains(res.Err.Error(), "goroutine") {
		t.Error("error should carry stack trace")
	}
}

func TestRunStageZeroTimeoutMeansNone(t *testing.T) {
	res := runStage(context.Background(), testLogger(), "email", 0, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			return errors.New("unexpected deadline")
		}
		return nil
	})
	if res.Failed() {
		t.Errorf("unexpected failure: %v", res.Err)
	}
}
