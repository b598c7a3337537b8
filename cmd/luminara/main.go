package main

import (
	"os"

	"github.com/spf13/cobra"

	"luminara/internal/interfaces/cli/migrate"
	"luminara/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "luminara",
		Short: "Luminara - spiritual guidance chat platform",
		Long:  `Luminara is the backend for a spiritual guidance chat service with subscription-gated tools, usage quotas, and conversation history.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
