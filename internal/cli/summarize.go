package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guiyumin/voicediary/internal/core/ai/generator"
	"github.com/guiyumin/voicediary/internal/core/ai/prompts"
	"github.com/guiyumin/voicediary/internal/core/config"
	"github.com/guiyumin/voicediary/internal/core/journal"
	"github.com/guiyumin/voicediary/internal/core/logging"
)

// Exit codes for the summarize command.
const (
	exitOK         = 0
	exitNoFile     = 1
	exitAPIError   = 2
	exitWriteError = 3
	exitOther      = 4
)

var (
	summarizeInput  string
	summarizeOutput string
	summarizeKeep   bool
	summarizeDryRun bool
	summarizeFormat string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize the oldest complete day of entries",
	Long: `Summarizes one ongoing entries file into a daily journal entry.
Without --input the oldest complete day is selected automatically; the
consumed entries file is deleted unless --keep-original is set.

Exit codes: 0 success, 1 nothing to process, 2 generation API error,
3 output write error, 4 other error.`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runSummarize())
	},
}

func runSummarize() int {
	cfg, err := config.Load()
	if err != nil {
		fatalConfig(err)
	}
	if err := config.Validate(cfg); err != nil {
		fatalConfig(err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		return exitOther
	}

	rt, err := logging.New(cfg.LogPath(), cfg.UsageLogPath(), verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		return exitOther
	}
	defer rt.Close()

	// Pick the input file.
	inputPath := summarizeInput
	var date time.Time
	if inputPath == "" {
		sel, err := journal.FindOldest(cfg.OutputDir(), rt.Logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
			return exitOther
		}
		if !sel.Selected() {
			fmt.Println(color.YellowString(sel.Message))
			return exitNoFile
		}
		inputPath = sel.Path
		date = sel.Date
	} else {
		date = journal.DateFromFilename(filepath.Base(inputPath))
	}

	content, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: cannot read %s: %v", inputPath, err))
		return exitNoFile
	}
	if strings.TrimSpace(string(content)) == "" {
		fmt.Fprintln(os.Stderr, color.YellowString("%s is empty, nothing to summarize", filepath.Base(inputPath)))
		return exitNoFile
	}

	if summarizeDryRun {
		fmt.Printf("Would summarize %s (%d bytes)\n", filepath.Base(inputPath), len(content))
		return exitOK
	}

	gen, err := generator.New(cfg.Generation)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		return exitAPIError
	}

	result, err := gen.Generate(context.Background(), prompts.Summarize(string(content)))
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Generation failed: %v", err))
		return exitAPIError
	}
	rt.Usage.Record(gen.Name(), result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens)

	outPath := summarizeOutput
	if outPath == "" {
		if date.IsZero() {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outPath = filepath.Join(cfg.SummariesDir(), base+"_summarized.txt")
		} else {
			outPath = journal.SummaryPath(cfg.SummariesDir(), date)
		}
	}
	if err := journal.WriteSummary(outPath, result.Text); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Failed to write summary: %v", err))
		return exitWriteError
	}

	if !summarizeKeep {
		if err := os.Remove(inputPath); err != nil {
			fmt.Fprintln(os.Stderr, color.YellowString("Warning: could not remove %s: %v", inputPath, err))
		}
	}

	switch summarizeFormat {
	case "json":
		writeJSON(os.Stdout, map[string]string{
			"status": "success",
			"input":  inputPath,
			"output": outPath,
			"date":   date.Format("2006-01-02"),
		})
	default:
		fmt.Printf("%s %s\n", color.GreenString("Summary written:"), outPath)
	}
	return exitOK
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeInput, "input", "", "entries file to summarize (default: oldest complete day)")
	summarizeCmd.Flags().StringVar(&summarizeOutput, "output", "", "summary output path")
	summarizeCmd.Flags().BoolVar(&summarizeKeep, "keep-original", false, "do not delete the entries file after summarizing")
	summarizeCmd.Flags().BoolVar(&summarizeDryRun, "dry-run", false, "show what would be summarized without calling the API")
	summarizeCmd.Flags().StringVar(&summarizeFormat, "format", "text", "output format: text or json")
	rootCmd.AddCommand(summarizeCmd)
}
