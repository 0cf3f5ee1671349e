package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of docmarkup",
	Run: func(cmd *cobra.Command, args []string) {
		v := currentVersion()
		fmt.Fprintf(cmd.OutOrStdout(), "docmarkup version %s (commit %s, built %s)\n", v.Version, v.Commit, v.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
