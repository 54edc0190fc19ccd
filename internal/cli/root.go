package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guiyumin/voicediary/internal/core/config"
	"github.com/guiyumin/voicediary/internal/core/scheduler"
	"github.com/guiyumin/voicediary/internal/core/version"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "voicediary",
	Short:   "Voice diary pipeline: download recordings, transcribe, organize, and summarize daily entries",
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScheduler()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")
}

func Execute() error {
	return rootCmd.Execute()
}

// runScheduler is the default command: run the pipeline on the configured
// cadence until interrupted.
func runScheduler() error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	runsPerDay := *app.cfg.Scheduler.RunsPerDay
	interval := time.Duration(scheduler.IntervalSeconds(runsPerDay)) * time.Second

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(interval, app.pipeline.Run, app.logger)
	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("scheduler stopped: %w", err)
	}
	return nil
}

// fatalConfig prints a config problem and exits. Configuration mistakes are
// not recoverable at runtime; better to fail at startup than mid-run.
func fatalConfig(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("Configuration error: %v", err))
	fmt.Fprintf(os.Stderr, "Edit %s or run 'voicediary init'.\n", config.SavePath())
	os.Exit(1)
}
