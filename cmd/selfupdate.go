package cmd

import (
	"context"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"collabctl/pkg/logging"
)

const githubRepoSlug = "collabplatform/collabctl"

func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update collabctl to the latest release",
		Long: `Checks for the latest release on GitHub and, when a newer version
is available, replaces the running binary with it in place.`,
		RunE: runSelfUpdate,
	}
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	version := rootCmd.Version
	if version == "" || version == "dev" {
		return fmt.Errorf("cannot self-update a development version; install a released build first")
	}

	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}

	logging.Info("SelfUpdate", "Checking %s for releases newer than %s", githubRepoSlug, version)

	latest, err := selfupdate.UpdateSelf(ctx, version, selfupdate.ParseSlug(githubRepoSlug))
	if err != nil {
		return fmt.Errorf("self-update failed: %w", err)
	}

	if latest.LessOrEqual(version) {
		fmt.Printf("collabctl %s is already the latest version\n", version)
		return nil
	}

	fmt.Printf("Updated collabctl to %s\n", latest.Version())
	if notes := latest.ReleaseNotes; notes != "" {
		fmt.Printf("\nRelease notes:\n%s\n", notes)
	}
	return nil
}
