package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one pipeline pass and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ok, err := app.pipeline.Run(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("pipeline run failed, see %s", app.cfg.LogPath())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
