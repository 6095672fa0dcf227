package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dayflow/dayflow/internal/actionable"
	"github.com/dayflow/dayflow/internal/appstate"
)

func newAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <state.yaml>",
		Short: "Run a one-shot gap analysis over an application state file",
		Long: `Analyze loads pillars, goals, and scheduled blocks from a YAML file,
runs gap analysis over them, and prints the prioritized actionable
insights.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read state file: %w", err)
			}
			var state appstate.Snapshot
			if err := yaml.Unmarshal(data, &state); err != nil {
				return fmt.Errorf("failed to parse state file: %w", err)
			}

			advisor := actionable.NewAdvisor(&actionable.Config{
				Provider: appstate.StaticProvider{State: state},
			})
			insights := advisor.Insights(context.Background())

			out, _ := json.MarshalIndent(map[string]interface{}{
				"fingerprint": actionable.Fingerprint(state),
				"insights":    insights,
			}, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	}
}
