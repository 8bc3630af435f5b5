package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/chrisdamba/trafficmcp/internal/tools"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools and their parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		// handlers are never invoked here, so no source is opened
		registry := tools.NewTrafficTools(nil, nil)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, t := range registry.Tools() {
			fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
			for _, p := range t.Params {
				name := p.Name
				if p.Required {
					name += "*"
				}
				fmt.Fprintf(w, "\t  %s (%s)\t%s\n", name, p.Type, p.Description)
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("-", 20))
		fmt.Fprintln(cmd.OutOrStdout(), "* required")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
