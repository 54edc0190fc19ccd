package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guiyumin/voicediary/internal/core/config"
	"github.com/guiyumin/voicediary/internal/core/journal"
)

var (
	checkDir    string
	checkFormat string
)

// checkReport is the JSON shape of the check result.
type checkReport struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	FilePath string `json:"file_path,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report which ongoing entries file would be summarized next",
	Long: `Scans the entries directory and reports the oldest ongoing entries file.
Summarization needs at least two files: the oldest complete day plus the
day still being written. Exits 0 when a file is eligible, 1 otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := checkDir
		if dir == "" {
			cfg, err := config.Load()
			if err != nil {
				fatalConfig(err)
			}
			dir = cfg.OutputDir()
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		sel, err := journal.FindOldest(dir, logger)
		if err != nil {
			return err
		}

		switch checkFormat {
		case "json":
			report := checkReport{
				Status:  sel.Status,
				Message: sel.Message,
			}
			if sel.Selected() {
				report.FilePath = sel.Path
				report.FileName = filepath.Base(sel.Path)
			}
			if err := writeJSON(os.Stdout, report); err != nil {
				return err
			}
		default:
			if sel.Selected() {
				fmt.Printf("%s %s\n", color.GreenString("Next up:"), filepath.Base(sel.Path))
				fmt.Printf("Date: %s\n", sel.Date.Format("2006-01-02"))
			} else {
				fmt.Println(color.YellowString(sel.Message))
			}
		}

		if !sel.Selected() {
			os.Exit(1)
		}
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	checkCmd.Flags().StringVar(&checkDir, "dir", "", "entries directory (default: configured output dir)")
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "output format: text or json")
	rootCmd.AddCommand(checkCmd)
}
