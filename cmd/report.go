package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <tool> [name=value ...]",
	Short: "Run one tool and print its result",
	Long: `Runs a single tool against the configured source and prints the result to
stdout. Arguments are name=value pairs; values that parse as JSON (numbers,
arrays) are passed as such, anything else as a string:

  trafficmcp report analyze_peak_hours vehicle_type=heavy_vehicles
  trafficmcp report generate_speed_graph 'vehicle_types=["heavy_vehicles_avg_speed"]'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolArgs, err := parseToolArgs(args[1:])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res := a.tools.Call(cmd.Context(), args[0], toolArgs)
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		if res.IsError {
			return fmt.Errorf("tool %s failed", args[0])
		}
		return nil
	},
}

func parseToolArgs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("argument %q is not name=value", pair)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		out[name] = value
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
