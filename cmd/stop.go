package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"collabctl/internal/orchestrator"
	"collabctl/internal/render"
)

func newStopCmd() *cobra.Command {
	var (
		force    bool
		remove   bool
		keepData bool
		timeout  int
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "stop [service-or-group]",
		Short: "Stop services in reverse dependency order",
		Long: `Stop the selected services, dependents first.

Stopping a service that is not running is a no-op. Graceful stops are
bounded by --timeout; --force kills immediately instead. --remove
deletes containers after they stop; data volumes are kept unless
--keep-data=false.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			selection := selectionArg(args)

			if dryRun {
				plan, err := a.engine.Plan(selection, true)
				if err != nil {
					return err
				}
				fmt.Print(render.Plan(plan, "stop"))
				return nil
			}

			result, err := a.engine.Stop(cmd.Context(), selection, orchestrator.StopOptions{
				Force:         force,
				Remove:        remove,
				RemoveVolumes: remove && !keepData,
				Timeout:       time.Duration(timeout) * time.Second,
			})
			if err != nil {
				return err
			}

			fmt.Print(render.BatchSummary(result))
			if !result.Succeeded() {
				return fmt.Errorf("%d service(s) failed to stop", len(result.Failed()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Kill services instead of stopping gracefully")
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove containers after stopping")
	cmd.Flags().BoolVar(&keepData, "keep-data", true, "Keep data volumes when removing containers")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "Seconds to wait for each graceful stop (default 30)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the computed order without touching the runtime")

	return cmd
}
