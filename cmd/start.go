package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"collabctl/internal/orchestrator"
	"collabctl/internal/render"
)

func newStartCmd() *cobra.Command {
	var (
		ssl           bool
		forceRecreate bool
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "start [service-or-group]",
		Short: "Start services in dependency order",
		Long: `Start the selected services, dependencies first.

With no argument the whole deployment is started. The shared network is
created if missing. Services that are already running are left alone.
A single service failing does not stop the rest of the batch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			selection := selectionArg(args)

			if dryRun {
				plan, err := a.engine.Plan(selection, false)
				if err != nil {
					return err
				}
				fmt.Print(render.Plan(plan, "start"))
				return nil
			}

			result, err := a.engine.Start(cmd.Context(), selection, orchestrator.StartOptions{
				SSL:           ssl,
				ForceRecreate: forceRecreate,
			})
			if err != nil {
				return err
			}

			fmt.Print(render.BatchSummary(result))
			if !result.Succeeded() {
				return fmt.Errorf("%d service(s) failed to start", len(result.Failed()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ssl, "ssl", false, "Start with the SSL profile")
	cmd.Flags().BoolVar(&forceRecreate, "force-recreate", false, "Recreate containers from their recorded configuration before starting")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the computed order without touching the runtime")

	return cmd
}
