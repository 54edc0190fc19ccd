// Package journal manages the per-day diary accumulator files: where they
// live, how organized text is appended, and which day is ready to be
// summarized.
package journal

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"time"
)

// Finder selection statuses. These are the machine-readable strings the
// CLI emits in JSON mode.
const (
	StatusSelected     = "success"
	StatusNoFiles      = "no_files"
	StatusSingleFile   = "single_file"
	StatusNoValidFiles = "no_valid_files"
)

// Selection is the outcome of an oldest-file scan. Path and Date are set
// only when Status is StatusSelected.
type Selection struct {
	Status  string
	Message string
	Path    string
	Date    time.Time
}

// Selected reports whether a file was chosen.
func (s Selection) Selected() bool {
	return s.Status == StatusSelected
}

const ongoingGlob = "*_ongoing_entries*.txt"

var datePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})_ongoing_entries.*\.txt$`)

// FindOldest scans dir for ongoing-entries files and picks the one with the
// oldest embedded date.
//
// Zero matches and a single match are both "nothing to do yet", not errors:
// a lone file is assumed to be today's, still being appended to, and is
// never summarized until a second day's file shows up. Filenames whose date
// does not parse are skipped with a warning rather than failing the scan.
// Ties on equal dates fall to enumeration order; dates are unique per day
// in normal operation.
func FindOldest(dir string, logger *slog.Logger) (Selection, error) {
	matches, err := filepath.Glob(filepath.Join(dir, ongoingGlob))
	if err != nil {
		return Selection{}, err
	}

	switch len(matches) {
	case 0:
		return Selection{
			Status:  StatusNoFiles,
			Message: "No ongoing entries files found.",
		}, nil
	case 1:
		return Selection{
			Status:  StatusSingleFile,
			Message: "Single file found. At least two files are needed for processing.",
		}, nil
	}

	var oldestPath string
	var oldestDate time.Time
	for _, path := range matches {
		name := filepath.Base(path)
		m := datePattern.FindStringSubmatch(name)
		if m == nil {
			logger.Warn("skipping file without embedded date", "file", name)
			continue
		}
		date, err := time.Parse("2006-01-02", m[1])
		if err != nil {
			logger.Warn("couldn't parse date from filename", "file", name)
			continue
		}
		if oldestPath == "" || date.Before(oldestDate) {
			oldestPath = path
			oldestDate = date
		}
	}

	if oldestPath == "" {
		return Selection{
			Status:  StatusNoValidFiles,
			Message: "No valid date-prefixed ongoing entries files found.",
		}, nil
	}

	return Selection{
		Status:  StatusSelected,
		Message: "The oldest ongoing entries file is: " + filepath.Base(oldestPath),
		Path:    oldestPath,
		Date:    oldestDate,
	}, nil
}

// DateFromFilename extracts the embedded YYYY-MM-DD date from an
// ongoing-entries filename. Returns the zero time if absent.
func DateFromFilename(name string) time.Time {
	m := datePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return time.Time{}
	}
	date, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}
	}
	return date
}
