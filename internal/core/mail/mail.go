// Package mail delivers the daily summary over SMTP.
package mail

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/guiyumin/voicediary/internal/core/config"
)

// Message is one outgoing email.
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentPath string
}

// Mailer sends messages.
type Mailer interface {
	Send(msg Message) error
}

// Simple email regex - validates most common email formats
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail checks if the address is formatted correctly. Beyond the
// regex it rejects duplicated domain labels like user@example.com.com,
// a common transcription of a spoken address.
func IsValidEmail(email string) bool {
	if !emailRegex.MatchString(email) {
		return false
	}

	at := strings.LastIndex(email, "@")
	parts := strings.Split(email[at+1:], ".")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == parts[i+1] {
			return false
		}
	}
	return true
}

// SMTP implements Mailer via an SMTP server.
type SMTP struct {
	cfg config.EmailConfig
}

// NewSMTP creates an SMTP mailer from the email configuration.
func NewSMTP(cfg config.EmailConfig) (*SMTP, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host not configured")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, fmt.Errorf("email sender and recipient are required")
	}
	if !IsValidEmail(cfg.To) {
		return nil, fmt.Errorf("invalid recipient address: %s", cfg.To)
	}
	return &SMTP{cfg: cfg}, nil
}

// Send delivers one message, attaching the summary file when present.
func (s *SMTP) Send(msg Message) error {
	to := msg.To
	if to == "" {
		to = s.cfg.To
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if msg.AttachmentPath != "" {
		m.Attach(msg.AttachmentPath)
	}

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
