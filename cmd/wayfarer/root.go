package main

import "github.com/spf13/cobra"

// rootCmd serves wayfarer when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "wayfarer [command]",
	Short:        "Wayfarer: keep a log of everywhere you've been",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         serve,
}
