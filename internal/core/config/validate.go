package config

import (
	"fmt"
	"strings"
	"time"
)

// Stage timeout defaults, applied when the config leaves them unset.
const (
	DefaultDownloadTimeout   = 1 * time.Hour
	DefaultTranscribeTimeout = 30 * time.Minute
	DefaultOrganizeTimeout   = 10 * time.Minute
	DefaultSummarizeTimeout  = 30 * time.Minute
	DefaultEmailTimeout      = 2 * time.Minute
)

// Validate enforces config invariants. A validation error is fatal: the
// process must exit before any pipeline stage runs.
func Validate(cfg *Config) error {
	if cfg.Scheduler.RunsPerDay == nil {
		return fmt.Errorf("scheduler.runs_per_day is required")
	}
	if *cfg.Scheduler.RunsPerDay < 0 {
		return fmt.Errorf("scheduler.runs_per_day must be >= 0")
	}

	if strings.TrimSpace(cfg.Drive.URL) == "" {
		return fmt.Errorf("drive.url must not be empty")
	}
	if strings.TrimSpace(cfg.Drive.Folder) == "" {
		return fmt.Errorf("drive.folder must not be empty")
	}

	switch cfg.Transcription.Provider {
	case "", "openai":
	default:
		return fmt.Errorf("transcription.provider must be openai")
	}

	switch cfg.Generation.Provider {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("generation.provider must be one of: openai, anthropic")
	}

	if cfg.Email.Enabled {
		if strings.TrimSpace(cfg.Email.Host) == "" {
			return fmt.Errorf("email.host must not be empty when email.enabled=true")
		}
		if strings.TrimSpace(cfg.Email.From) == "" {
			return fmt.Errorf("email.from must not be empty when email.enabled=true")
		}
		if strings.TrimSpace(cfg.Email.To) == "" {
			return fmt.Errorf("email.to must not be empty when email.enabled=true")
		}
	}

	applyTimeoutDefaults(cfg)
	return nil
}

func applyTimeoutDefaults(cfg *Config) {
	s := &cfg.Scheduler
	if s.DownloadTimeout == 0 {
		s.DownloadTimeout = Duration(DefaultDownloadTimeout)
	}
	if s.TranscribeTimeout == 0 {
		s.TranscribeTimeout = Duration(DefaultTranscribeTimeout)
	}
	if s.OrganizeTimeout == 0 {
		s.OrganizeTimeout = Duration(DefaultOrganizeTimeout)
	}
	if s.SummarizeTimeout == 0 {
		s.SummarizeTimeout = Duration(DefaultSummarizeTimeout)
	}
	if s.EmailTimeout == 0 {
		s.EmailTimeout = Duration(DefaultEmailTimeout)
	}
	if cfg.Email.Port == 0 {
		cfg.Email.Port = 587
	}
}
