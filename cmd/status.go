package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"collabctl/internal/health"
	"collabctl/internal/render"
	"collabctl/internal/tui"
	"collabctl/pkg/logging"
)

func newStatusCmd() *cobra.Command {
	var (
		watch  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "status [service-or-group]",
		Short: "Show runtime state of services",
		Long: `Show each selected service's container state, health check
verdict, and published ports. State is queried fresh from the runtime on
every invocation; nothing is cached.

--watch opens a live dashboard that refreshes every few seconds.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			selection := selectionArg(args)

			if watch {
				logging.Silence()
				return tui.Run(cmd.Context(), func(ctx context.Context) (*health.Report, error) {
					return a.evaluator.Evaluate(ctx, selection)
				})
			}

			services, err := a.registry.Resolve(selection)
			if err != nil {
				return err
			}

			rows := make([]render.StatusRow, 0, len(services))
			for _, svc := range services {
				state, err := a.rt.Inspect(cmd.Context(), svc.Container)
				if err != nil {
					return err
				}
				rows = append(rows, render.StatusRow{Service: svc, State: state})
			}

			if output == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			fmt.Print(render.StatusTable(rows))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Live dashboard, refreshed periodically")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")

	return cmd
}
