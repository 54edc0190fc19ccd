package state

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "pipeline_state.json"))

	st := store.Load()
	if st.TotalRuns != 0 || st.LastRunStatus != "" {
		t.Errorf("expected zero state, got %+v", st)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline_state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	st := NewStore(path).Load()
	if st.TotalRuns != 0 {
		t.Errorf("expected zero state for corrupt file, got %+v", st)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "pipeline_state.json"))

	processed := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	want := &State{
		LastRunTime:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		LastRunStatus:  StatusFailed,
		LastFailedStep: StepDownload,
		LastError:      "remote unreachable",
		TotalRuns:      7,
		SuccessfulRuns: 5,
		Stats: ProcessingStats{
			TotalProcessed:      4,
			SuccessfulProcessed: 3,
			FailedProcessed:     1,
			LastProcessedTime:   &processed,
		},
	}

	if err := store.Save(want); err != nil {
		t.Fatal(err)
	}

	got := store.Load()
	if !got.LastRunTime.Equal(want.LastRunTime) {
		t.Errorf("LastRunTime = %v, want %v", got.LastRunTime, want.LastRunTime)
	}
	got.LastRunTime = want.LastRunTime
	if !got.Stats.LastProcessedTime.Equal(*want.Stats.LastProcessedTime) {
		t.Errorf("LastProcessedTime = %v, want %v", got.Stats.LastProcessedTime, want.Stats.LastProcessedTime)
	}
	got.Stats.LastProcessedTime = want.Stats.LastProcessedTime
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "pipeline_state.json"))

	if err := store.Save(&State{TotalRuns: 3, SuccessfulRuns: 2, LastRunStatus: StatusSuccess}); err != nil {
		t.Fatal(err)
	}

	first := store.Load()
	second := store.Load()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two loads without a save differ:\n%+v\n%+v", first, second)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "pipeline_state.json"))

	if err := store.Save(&State{TotalRuns: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(&State{TotalRuns: 2, SuccessfulRuns: 2}); err != nil {
		t.Fatal(err)
	}

	got := store.Load()
	if got.TotalRuns != 2 || got.SuccessfulRuns != 2 {
		t.Errorf("expected latest record, got %+v", got)
	}
}

func TestSaveFailurePropagates(t *testing.T) {
	// Point the store at a path whose parent is a file, so MkdirAll fails.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(filepath.Join(blocker, "pipeline_state.json"))
	if err := store.Save(&State{}); err == nil {
		t.Fatal("expected save error, got nil")
	}
}
