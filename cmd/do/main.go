package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/timedeposit/timedeposit/cmd/do/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "do",
		Short:         "Development tools for Time Deposit",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(cmd.DevCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.PlanCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
