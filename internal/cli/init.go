package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guiyumin/voicediary/internal/core/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the voicediary config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Exists() && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", config.SavePath())
		}

		if err := config.Save(config.DefaultConfig()); err != nil {
			return err
		}

		fmt.Printf("Saved %s\n", config.SavePath())
		fmt.Println("Fill in the drive URL and API keys, then run 'voicediary run'.")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
