// Package state persists the pipeline run record across process restarts.
//
// A single JSON file holds the outcome of the most recent run plus
// cumulative counters. The scheduler loop is the only writer, so no file
// locking is needed; if concurrent pipelines ever become a thing, a lock
// or transactional rename scheme is required here.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Run status values.
const (
	StatusSuccess  = "success"
	StatusDegraded = "degraded"
	StatusFailed   = "failed"
	StatusError    = "error"
)

// Step identifiers recorded in LastFailedStep.
const (
	StepDownload           = "gdrive_download"
	StepTranscription      = "transcription"
	StepTranscriptMissing  = "transcription_file_missing"
	StepOrganize           = "transcription_processing"
	StepOngoingEntries     = "ongoing_entries_processing"
	StepEmail              = "email"
)

// ProcessingStats tracks the transcription-processing stage only.
type ProcessingStats struct {
	TotalProcessed      int        `json:"total_processed"`
	SuccessfulProcessed int        `json:"successful_processed"`
	FailedProcessed     int        `json:"failed_processed"`
	LastProcessedTime   *time.Time `json:"last_processed_time"`
}

// State is the persisted pipeline run record. Absence of the backing file
// means the pipeline has never run.
type State struct {
	LastRunTime    time.Time       `json:"last_run_time"`
	LastRunStatus  string          `json:"last_run_status,omitempty"`
	LastFailedStep string          `json:"last_failed_step,omitempty"`
	LastError      string          `json:"last_error,omitempty"`
	TotalRuns      int             `json:"total_runs"`
	SuccessfulRuns int             `json:"successful_runs"`
	Stats          ProcessingStats `json:"processing_stats"`
}

// Store reads and writes the state file.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state record. A missing or unparsable file yields a zero
// State and no error: callers must tolerate first-run absence.
func (s *Store) Load() *State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return &State{}
	}

	st := &State{}
	if err := json.Unmarshal(data, st); err != nil {
		return &State{}
	}
	return st
}

// Save writes the state record. The file is written to a temp sibling and
// renamed so a reader never observes a partial write. A write failure is
// returned to the caller: losing the ability to record state is an
// operational problem worth surfacing loudly.
func (s *Store) Save(st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".pipeline_state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
