package main

import (
	"os"

	"github.com/spf13/cobra"

	"tradedesk/internal/interfaces/cli/migrate"
	"tradedesk/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tradedesk",
		Short: "Tradedesk - a trade mediation service",
		Long:  `Tradedesk runs the ticket, trade and finalization workflows behind middleman-assisted trades, with an HTTP API and migration tooling.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
