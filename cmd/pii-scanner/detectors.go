package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
)

func newDetectorsCmd() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List the built-in detectors",
		Run: func(cmd *cobra.Command, args []string) {
			registry := detection.DefaultRegistry()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%d detectors covering %d countries\n\n",
				len(registry.All()), len(registry.Countries()))

			for _, d := range registry.All() {
				fmt.Fprintf(out, "%-26s %-10s %-9s %s\n",
					d.ID(), d.Country(), d.BaseSeverity(), d.Name())
				if detailed && d.Description() != "" {
					fmt.Fprintf(out, "    %s\n", d.Description())
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "Show detector descriptions")
	return cmd
}
