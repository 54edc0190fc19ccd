package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/guiyumin/voicediary/internal/core/ai/generator"
	"github.com/guiyumin/voicediary/internal/core/ai/transcriber"
	"github.com/guiyumin/voicediary/internal/core/config"
	"github.com/guiyumin/voicediary/internal/core/drive"
	"github.com/guiyumin/voicediary/internal/core/logging"
	"github.com/guiyumin/voicediary/internal/core/mail"
	"github.com/guiyumin/voicediary/internal/core/pipeline"
	"github.com/guiyumin/voicediary/internal/core/state"
	"github.com/guiyumin/voicediary/internal/core/store"
)

// app holds the assembled pipeline and its resources.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	runtime  *logging.Runtime
	records  *store.SQLite
}

// buildApp loads and validates config, then wires every collaborator.
// Config problems are fatal here, before any pipeline work starts.
func buildApp() (*app, error) {
	if !config.Exists() {
		fmt.Fprintln(os.Stderr, color.YellowString("No config file found. Run 'voicediary init' first."))
	}

	cfg, err := config.Load()
	if err != nil {
		fatalConfig(err)
	}
	if err := config.Validate(cfg); err != nil {
		fatalConfig(err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	rt, err := logging.New(cfg.LogPath(), cfg.UsageLogPath(), verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	files, err := drive.NewWebDAVStore(cfg.Drive)
	if err != nil {
		rt.Close()
		return nil, err
	}

	trans, err := transcriber.New(cfg.Transcription)
	if err != nil {
		rt.Close()
		return nil, err
	}

	gen, err := generator.New(cfg.Generation)
	if err != nil {
		rt.Close()
		return nil, err
	}

	var mailer mail.Mailer
	if cfg.Email.Enabled {
		smtp, err := mail.NewSMTP(cfg.Email)
		if err != nil {
			rt.Close()
			return nil, err
		}
		mailer = smtp
	}

	records, err := store.Open(cfg.DBPath())
	if err != nil {
		rt.Close()
		return nil, err
	}

	p := pipeline.New(pipeline.Options{
		Config:      cfg,
		Logger:      rt.Logger,
		Usage:       rt.Usage,
		States:      state.NewStore(cfg.StatePath()),
		Files:       files,
		Transcriber: trans,
		Generator:   gen,
		Mailer:      mailer,
		Records:     records,
	})

	return &app{
		cfg:      cfg,
		logger:   rt.Logger,
		pipeline: p,
		runtime:  rt,
		records:  records,
	}, nil
}

// Close releases log files and the history database.
func (a *app) Close() {
	if a.records != nil {
		a.records.Close()
	}
	if a.runtime != nil {
		a.runtime.Close()
	}
}
