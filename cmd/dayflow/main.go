// dayflow is the pattern-engine CLI: replay recorded behavior through
// the analyzers, run a one-shot gap analysis, or serve the engine with
// metrics and telemetry.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dayflow/dayflow/internal/config"
)

const version = "1.0.0"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "dayflow",
		Short: "Dayflow pattern engine - learn from scheduling behavior",
		Long: `dayflow learns timing, energy, and sequence patterns from recorded
scheduling behavior and turns them into prioritized, actionable insights.
All output is structured JSON (pipe through jq for human-readable formatting).`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Config file path")

	rootCmd.AddCommand(newReplayCommand())
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newServeCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
