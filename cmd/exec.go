package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"collabctl/internal/runtime"
)

func newExecCmd() *cobra.Command {
	var (
		user    string
		workdir string
	)

	cmd := &cobra.Command{
		Use:   "exec <service> [-- command...]",
		Short: "Run a command inside a service's container",
		Long: `Run a command inside the named service's running container.
Without an explicit command an interactive /bin/bash is started.

Arguments after -- are passed to the container verbatim:

	collabctl exec mysql-server -- mysqladmin status`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			svc, ok := a.registry.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown service %q", args[0])
			}

			command := []string{"/bin/bash"}
			interactive := true
			if at := cmd.ArgsLenAtDash(); at >= 0 && at < len(args) {
				if rest := args[at:]; len(rest) > 0 {
					command = rest
					interactive = false
				}
			} else if len(args) > 1 {
				command = args[1:]
				interactive = false
			}

			res, err := a.rt.Exec(cmd.Context(), svc.Container, runtime.ExecOptions{
				Cmd:         command,
				User:        user,
				WorkingDir:  workdir,
				Interactive: interactive,
				Stdin:       os.Stdin,
				Stdout:      os.Stdout,
				Stderr:      os.Stderr,
			})
			if err != nil {
				return err
			}
			// Propagate the command's exit code once cleanup has run.
			exitStatus = res.ExitCode
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "Username or UID to run the command as")
	cmd.Flags().StringVarP(&workdir, "workdir", "w", "", "Working directory inside the container")

	return cmd
}
