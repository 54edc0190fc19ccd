package transcriber

import (
	"context"
	"fmt"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/guiyumin/voicediary/internal/core/config"
)

// OpenAI implements Transcriber using the OpenAI Whisper API.
type OpenAI struct {
	client   *openai.Client
	model    string
	language string
}

// NewOpenAI creates a new OpenAI transcriber.
func NewOpenAI(cfg config.AIServiceConfig) (*OpenAI, error) {
	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not provided")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAI{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		language: cfg.Language,
	}, nil
}

// Name returns the provider name.
func (o *OpenAI) Name() string {
	return "openai"
}

// Transcribe converts an audio file to text using OpenAI Whisper.
func (o *OpenAI) Transcribe(ctx context.Context, filePath string) (*Result, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	req := openai.AudioRequest{
		Model:    o.model,
		FilePath: filePath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: o.language,
	}

	resp, err := o.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("transcription API error: %w", err)
	}

	return &Result{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: time.Duration(resp.Duration * float64(time.Second)),
	}, nil
}
