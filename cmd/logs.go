package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"collabctl/internal/runtime"
)

func newLogsCmd() *cobra.Command {
	var (
		lines  int
		since  string
		until  string
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "logs <service>",
		Short: "Show container logs for a single service",
		Long: `Fetch logs from one service's container. Accepts a service name,
not a group: log output from multiple containers interleaved on one
stream is rarely what you want, so groups are rejected.

With --follow the stream stays open until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			svc, ok := a.registry.Get(args[0])
			if !ok {
				if _, grpErr := a.registry.Resolve(args[0]); grpErr == nil {
					return fmt.Errorf("%q is a group; logs targets a single service", args[0])
				}
				return fmt.Errorf("unknown service %q", args[0])
			}

			rc, err := a.rt.Logs(cmd.Context(), svc.Container, runtime.LogOptions{
				Tail:   lines,
				Since:  since,
				Until:  until,
				Follow: follow,
			})
			if err != nil {
				return err
			}
			defer rc.Close()

			_, err = io.Copy(os.Stdout, rc)
			if err != nil && cmd.Context().Err() != nil {
				// Interrupted follow is a clean exit, not an error.
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "Number of trailing lines to show (0 for all)")
	cmd.Flags().StringVar(&since, "since", "", "Only logs after this time (RFC3339 or relative, e.g. 30m)")
	cmd.Flags().StringVar(&until, "until", "", "Only logs before this time")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Stream new log lines until interrupted")

	return cmd
}
