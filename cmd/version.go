package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the collabctl version",
		Long: `Print the version of this collabctl binary. Release builds embed
the version at build time; development builds report "dev".`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("collabctl version %s\n", rootCmd.Version)
		},
	}
}
