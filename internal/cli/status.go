package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guiyumin/voicediary/internal/core/config"
	"github.com/guiyumin/voicediary/internal/core/state"
	"github.com/guiyumin/voicediary/internal/core/store"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last run outcome and recent processing history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			fatalConfig(err)
		}

		states := state.NewStore(cfg.StatePath())
		st := states.Load()

		if statusFormat == "json" {
			return writeJSON(os.Stdout, st)
		}

		bold := color.New(color.Bold)

		if st.TotalRuns == 0 {
			fmt.Printf("The pipeline has not run yet (no state at %s).\n", states.Path())
			return nil
		}

		bold.Println("Last run")
		fmt.Printf("  Time:   %s\n", st.LastRunTime.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("  Status: %s\n", coloredStatus(st.LastRunStatus))
		if st.LastFailedStep != "" {
			fmt.Printf("  Failed step: %s\n", st.LastFailedStep)
			fmt.Printf("  Error: %s\n", st.LastError)
		}

		bold.Println("Totals")
		fmt.Printf("  Runs: %d (%d successful)\n", st.TotalRuns, st.SuccessfulRuns)
		fmt.Printf("  Recordings processed: %d (%d ok, %d failed)\n",
			st.Stats.TotalProcessed, st.Stats.SuccessfulProcessed, st.Stats.FailedProcessed)
		if st.Stats.LastProcessedTime != nil {
			fmt.Printf("  Last recording: %s\n", st.Stats.LastProcessedTime.Local().Format("2006-01-02 15:04:05"))
		}

		printHistory(cfg)
		return nil
	},
}

// printHistory shows the most recent records when the database exists.
func printHistory(cfg *config.Config) {
	if _, err := os.Stat(cfg.DBPath()); err != nil {
		return
	}
	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return
	}
	defer db.Close()

	records, err := db.Latest(context.Background(), 5)
	if err != nil || len(records) == 0 {
		return
	}

	color.New(color.Bold).Println("Recent history")
	for _, r := range records {
		fmt.Printf("  %s  %-10s  %s\n", r.CreatedAt.Local().Format("01-02 15:04"), r.Kind, r.SourceFile)
	}
}

func coloredStatus(status string) string {
	switch status {
	case state.StatusSuccess:
		return color.GreenString(status)
	case state.StatusDegraded:
		return color.YellowString(status)
	default:
		return color.RedString(status)
	}
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "text", "output format: text or json")
	rootCmd.AddCommand(statusCmd)
}
