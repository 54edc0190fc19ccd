package transcriber

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNeedsChunking(t *testing.T) {
	dir := t.TempDir()

	small := filepath.Join(dir, "small.m4a")
	if err := os.WriteFile(small, []byte("tiny"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewChunker()
	needs, err := c.NeedsChunking(small)
	if err != nil {
		t.Fatalf("NeedsChunking returned error: %v", err)
	}
	if needs {
		t.Error("small file should not need chunking")
	}

	c.maxFileSize = 2
	needs, err = c.NeedsChunking(small)
	if err != nil {
		t.Fatalf("NeedsChunking returned error: %v", err)
	}
	if !needs {
		t.Error("file over limit should need chunking")
	}
}

func TestNeedsChunkingMissingFile(t *testing.T) {
	c := NewChunker()
	if _, err := c.NeedsChunking(filepath.Join(t.TempDir(), "absent.m4a")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMergeResultsSingle(t *testing.T) {
	c := NewChunker()
	r := &Result{Text: "hello world", Language: "en", Duration: time.Minute}

	merged, err := c.MergeResults([]*Result{r})
	if err != nil {
		t.Fatalf("MergeResults returned error: %v", err)
	}
	if merged != r {
		t.Error("single result should be returned as-is")
	}
}

func TestMergeResultsEmpty(t *testing.T) {
	c := NewChunker()
	if _, err := c.MergeResults(nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestMergeResultsConcatenates(t *testing.T) {
	c := NewChunker()
	results := []*Result{
		{Text: "first part of the recording", Language: "en", Duration: 10 * time.Minute},
		{Text: "second part entirely", Language: "en", Duration: 5 * time.Minute},
	}

	merged, err := c.MergeResults(results)
	if err != nil {
		t.Fatalf("MergeResults returned error: %v", err)
	}
	if merged.Text != "first part of the recording second part entirely" {
		t.Errorf("unexpected merged text: %q", merged.Text)
	}
	if merged.Duration != 15*time.Minute {
		t.Errorf("expected 15m total duration, got %v", merged.Duration)
	}
	if merged.Language != "en" {
		t.Errorf("expected language en, got %q", merged.Language)
	}
}

func TestTrimOverlap(t *testing.T) {
	prev := "one two three four five six seven eight nine ten"
	curr := "eight nine ten and then some new words follow"

	got := trimOverlap(prev, curr)
	if got != "and then some new words follow" {
		t.Errorf("trimOverlap = %q", got)
	}
}

func TestTrimOverlapNoMatch(t *testing.T) {
	prev := "completely different leading words here now indeed"
	curr := "nothing in common with the previous chunk text"

	if got := trimOverlap(prev, curr); got != curr {
		t.Errorf("expected unchanged text, got %q", got)
	}
}
