package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Drive.URL = "https://dav.example.com"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "Valid default",
			mutate: func(c *Config) {},
		},
		{
			name:    "Missing runs_per_day",
			mutate:  func(c *Config) { c.Scheduler.RunsPerDay = nil },
			wantErr: "runs_per_day is required",
		},
		{
			name: "Negative runs_per_day",
			mutate: func(c *Config) {
				neg := -1.0
				c.Scheduler.RunsPerDay = &neg
			},
			wantErr: "must be >= 0",
		},
		{
			name: "Zero runs_per_day is valid",
			mutate: func(c *Config) {
				zero := 0.0
				c.Scheduler.RunsPerDay = &zero
			},
		},
		{
			name:    "Missing drive URL",
			mutate:  func(c *Config) { c.Drive.URL = "" },
			wantErr: "drive.url",
		},
		{
			name:    "Unknown generation provider",
			mutate:  func(c *Config) { c.Generation.Provider = "bard" },
			wantErr: "generation.provider",
		},
		{
			name: "Email enabled without recipient",
			mutate: func(c *Config) {
				c.Email.Enabled = true
				c.Email.Host = "smtp.example.com"
				c.Email.From = "diary@example.com"
			},
			wantErr: "email.to",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAppliesTimeoutDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Validate(cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Scheduler.DownloadTimeout.Std() != time.Hour {
		t.Errorf("download timeout = %v, want 1h", cfg.Scheduler.DownloadTimeout.Std())
	}
	if cfg.Scheduler.SummarizeTimeout.Std() != 30*time.Minute {
		t.Errorf("summarize timeout = %v, want 30m", cfg.Scheduler.SummarizeTimeout.Std())
	}
	if cfg.Email.Port != 587 {
		t.Errorf("email port = %d, want 587", cfg.Email.Port)
	}
}
