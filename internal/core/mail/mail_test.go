package mail

import (
	"testing"

	"github.com/guiyumin/voicediary/internal/core/config"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"plain address", "user@example.com", true},
		{"with dots and plus", "first.last+diary@example.co.uk", true},
		{"missing at", "userexample.com", false},
		{"missing tld", "user@example", false},
		{"empty", "", false},
		{"duplicated tld", "user@example.com.com", false},
		{"duplicated label", "user@mail.mail.com", false},
		{"spaces", "user name@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestNewSMTPValidation(t *testing.T) {
	base := config.EmailConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "diary@example.com",
		To:   "me@example.com",
	}

	if _, err := NewSMTP(base); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	noHost := base
	noHost.Host = ""
	if _, err := NewSMTP(noHost); err == nil {
		t.Error("expected error for missing host")
	}

	noTo := base
	noTo.To = ""
	if _, err := NewSMTP(noTo); err == nil {
		t.Error("expected error for missing recipient")
	}

	badTo := base
	badTo.To = "me@example.com.com"
	if _, err := NewSMTP(badTo); err == nil {
		t.Error("expected error for duplicated domain label")
	}
}
