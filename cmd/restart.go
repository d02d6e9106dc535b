package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"collabctl/internal/orchestrator"
	"collabctl/internal/render"
)

func newRestartCmd() *cobra.Command {
	var (
		hard bool
		wait int
		ssl  bool
	)

	cmd := &cobra.Command{
		Use:   "restart [service-or-group]",
		Short: "Restart services",
		Long: `Stop the selected services and start them again.

The restart delegates to the same stop and start used directly, so the
ordering guarantees are identical. --hard force-kills on the way down
and recreates containers from their recorded configuration on the way
up.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.engine.Restart(cmd.Context(), selectionArg(args), orchestrator.RestartOptions{
				Hard: hard,
				Wait: time.Duration(wait) * time.Second,
				SSL:  ssl,
			})
			if err != nil {
				return err
			}

			fmt.Print(render.BatchSummary(result))
			if !result.Succeeded() {
				return fmt.Errorf("%d transition(s) failed during restart", len(result.Failed()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&hard, "hard", false, "Force-kill and recreate containers")
	cmd.Flags().IntVar(&wait, "wait", 0, "Seconds to wait between stop and start (default 10)")
	cmd.Flags().BoolVar(&ssl, "ssl", false, "Start with the SSL profile")

	return cmd
}
