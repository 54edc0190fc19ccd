package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// entrySeparator goes between organized entries appended on the same day.
var entrySeparator = "\n\n" + strings.Repeat("=", 50) + "\n\n"

// OngoingPath returns the accumulator file for the given day, e.g.
// output/2024-03-01_ongoing_entries.txt.
func OngoingPath(dir string, date time.Time) string {
	return filepath.Join(dir, date.Format("2006-01-02")+"_ongoing_entries.txt")
}

// SummaryPath returns the summarized output file for the given day, e.g.
// summaries/2024-03-01_summarized.txt.
func SummaryPath(dir string, date time.Time) string {
	return filepath.Join(dir, date.Format("2006-01-02")+"_summarized.txt")
}

// AppendEntry adds organized diary text to the day's accumulator file.
// The file is created on the first entry of the day; subsequent entries are
// appended behind a separator.
func AppendEntry(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	_, statErr := os.Stat(path)
	exists := statErr == nil

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if exists {
		content = entrySeparator + content
	}
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return nil
}

// WriteSummary writes the summarized content, creating parent directories
// as needed.
func WriteSummary(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create summaries directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
