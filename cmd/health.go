package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"collabctl/internal/health"
	"collabctl/internal/render"
)

// Exit codes for scripted polling: 0 healthy, 2 issues found, 3 still
// starting. Distinct from cobra's generic 1 for usage/abort errors.
const (
	exitHealthy  = 0
	exitIssues   = 2
	exitStarting = 3
)

// healthExitCode maps the overall verdict to the process exit code.
func healthExitCode(v health.Verdict) int {
	switch v {
	case health.VerdictHealthy:
		return exitHealthy
	case health.VerdictStarting:
		return exitStarting
	default:
		return exitIssues
	}
}

func newHealthCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "health [service-or-group]",
		Short: "Probe service, storage, and host health",
		Long: `Probe the selected services (runtime state, HTTP reachability,
database ping) plus the shared storage mount and host resources, and
reduce everything to an overall verdict.

Exit codes: 0 healthy, 2 issues found, 3 services still starting. With
--fix, a bounded set of safe remediations runs once: restarting
unhealthy services, recreating the shared network, and removing
orphaned stopped containers. Storage capacity is never auto-fixed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.evaluator.Evaluate(cmd.Context(), selectionArg(args))
			if err != nil {
				return err
			}

			fmt.Print(render.HealthReport(report))

			if fix {
				actions := a.evaluator.Remediate(cmd.Context(), report)
				fmt.Print(render.RemediationSummary(actions))
			}

			// Deferred cleanup must run, so the non-zero code is handed to
			// Execute rather than exiting here.
			exitStatus = healthExitCode(report.Overall)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Attempt safe remediations after evaluating")

	return cmd
}
