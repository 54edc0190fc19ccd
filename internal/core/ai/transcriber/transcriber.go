// Package transcriber provides speech-to-text transcription.
package transcriber

import (
	"context"
	"fmt"
	"time"

	"github.com/guiyumin/voicediary/internal/core/config"
)

// Result contains the transcription output.
type Result struct {
	Text     string        // Transcript text
	Language string        // Detected language
	Duration time.Duration // Audio duration
}

// Transcriber converts audio to text.
type Transcriber interface {
	// Transcribe converts an audio file to text.
	Transcribe(ctx context.Context, filePath string) (*Result, error)

	// Name returns the provider name.
	Name() string
}

// New creates a Transcriber based on configuration.
func New(cfg config.AIServiceConfig) (Transcriber, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		return NewOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unsupported transcription provider: %s", provider)
	}
}
