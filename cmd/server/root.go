package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "confighub",
		Short: "Centralized configuration store",
		Long: `confighub serves environments and their variables over an authenticated
HTTP API. Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
		// running without a subcommand starts the server
		RunE: runServe,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}
