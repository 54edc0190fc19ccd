package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIntervalSeconds(t *testing.T) {
	tests := []struct {
		name       string
		runsPerDay float64
		want       int
	}{
		{"once a day", 1, 86400},
		{"twice a day", 2, 43200},
		{"every hour", 24, 3600},
		{"fractional", 1.5, 57600},
		{"run once mode", 0, 0},
		{"every ten minutes", 144, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntervalSeconds(tt.runsPerDay); got != tt.want {
				t.Errorf("IntervalSeconds(%v) = %d, want %d", tt.runsPerDay, got, tt.want)
			}
		})
	}
}

func TestCrossesMidnight(t *testing.T) {
	late := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	early := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	if !CrossesMidnight(late, time.Hour) {
		t.Error("23:30 + 1h should cross midnight")
	}
	if CrossesMidnight(early, time.Hour) {
		t.Error("10:00 + 1h should not cross midnight")
	}
	if !CrossesMidnight(time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC), time.Hour) {
		t.Error("year boundary should count as crossing midnight")
	}
}

func TestRunOnceMode(t *testing.T) {
	runs := 0
	s := New(0, func(ctx context.Context) (bool, error) {
		runs++
		return true, nil
	}, discardLogger())

	s.Run(context.Background())

	if runs != 1 {
		t.Errorf("expected exactly one run, got %d", runs)
	}
}

func TestRunLoopSleepsFullIntervalAfterFailure(t *testing.T) {
	var slept []time.Duration
	runs := 0

	s := New(10*time.Second, func(ctx context.Context) (bool, error) {
		runs++
		return runs%2 == 0, nil
	}, discardLogger())
	s.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	s.sleep = func(ctx context.Context, d time.Duration) bool {
		slept = append(slept, d)
		return len(slept) < 3
	}

	s.Run(context.Background())

	if runs != 3 {
		t.Fatalf("expected 3 runs, got %d", runs)
	}
	for i, d := range slept {
		if d != 10*time.Second {
			t.Errorf("sleep %d = %v, want full 10s regardless of run outcome", i, d)
		}
	}
}

func TestRunStopsWhenRunReturnsError(t *testing.T) {
	runs := 0
	slept := 0
	wantErr := errors.New("state file unwritable")

	s := New(10*time.Second, func(ctx context.Context) (bool, error) {
		runs++
		if runs == 2 {
			return false, wantErr
		}
		return true, nil
	}, discardLogger())
	s.sleep = func(ctx context.Context, d time.Duration) bool {
		slept++
		return true
	}

	if err := s.Run(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("Run() error = %v, want %v", err, wantErr)
	}
	if runs != 2 {
		t.Errorf("expected the loop to stop at the erroring run, got %d runs", runs)
	}
	if slept != 1 {
		t.Errorf("expected no sleep after the erroring run, got %d sleeps", slept)
	}
}

func TestRunOnceModePropagatesError(t *testing.T) {
	wantErr := errors.New("state file unwritable")
	s := New(0, func(ctx context.Context) (bool, error) {
		return false, wantErr
	}, discardLogger())

	if err := s.Run(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("Run() error = %v, want %v", err, wantErr)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runs := 0

	s := New(time.Hour, func(ctx context.Context) (bool, error) {
		runs++
		cancel()
		return true, nil
	}, discardLogger())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
	if runs != 1 {
		t.Errorf("expected 1 run before stop, got %d", runs)
	}
}
