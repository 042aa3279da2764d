package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"smart-tutor-pipeline/config"
	"smart-tutor-pipeline/logger"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "smart-tutor",
	Short: "smart-tutor turns a topic into a narrated explainer video.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("load config: %w", err)
			}
			loaded = config.Default()
		}
		cfg = loaded
		logger.Init(cfg.Log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to config file")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
