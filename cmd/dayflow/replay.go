package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dayflow/dayflow/internal/behavior"
	"github.com/dayflow/dayflow/internal/engine"
)

func newReplayCommand() *cobra.Command {
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "replay [events.jsonl]",
		Short: "Replay recorded behavior events and print the learned patterns",
		Long: `Replay reads behavior events as JSON Lines (one event per line) from a
file or stdin, feeds them through the pattern engine, and prints the
resulting patterns, insights, and engine confidence.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var in io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open events file: %w", err)
				}
				defer f.Close()
				in = f
			}

			events, err := readEvents(in)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				return fmt.Errorf("no events to replay")
			}

			engineCfg := engine.DefaultConfig()
			engineCfg.Capacity = cfg.Engine.Capacity
			// Short debounce so the replay settles quickly.
			engineCfg.DebounceInterval = 50 * time.Millisecond

			eng := engine.New(engineCfg)
			eng.Start(context.Background())
			defer eng.Stop()

			for _, event := range events {
				eng.Record(event)
			}
			waitForSettle(eng, settle)

			out, _ := json.MarshalIndent(map[string]interface{}{
				"events_replayed": len(events),
				"confidence":      eng.Confidence(),
				"patterns":        eng.Patterns(),
				"insights":        eng.Insights(),
				"stats":           eng.Stats(),
			}, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().DurationVar(&settle, "settle", 2*time.Second, "Max time to wait for analysis to finish")
	return cmd
}

func readEvents(r io.Reader) ([]behavior.Event, error) {
	var events []behavior.Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var event behavior.Event
		if err := json.Unmarshal(raw, &event); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// waitForSettle polls until an analysis has run and the engine goes
// quiet, bounded by max.
func waitForSettle(eng *engine.Engine, max time.Duration) {
	deadline := time.Now().Add(max)
	for time.Now().Before(deadline) {
		s := eng.Stats()
		if s.FullAnalyses+s.IncrementalAnalyses > 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
}
