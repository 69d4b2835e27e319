package main

import (
	"fmt"

	"github.com/spf13/cobra"

	dinit "github.com/axondata/go-dinit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dinit version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info := dinit.GetVersion()
		fmt.Fprintf(cmd.OutOrStdout(), "dinit %s (format: %s)\n", info.Version, info.Format)
	},
}
