package main

import (
	"fmt"
	"os"

	"github.com/benvon/task-metrics/cmd/admin/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "task-metrics-admin",
		Short: "Admin tool for the task metrics API",
		Long:  "CLI tool for running daily generation, printing reports, and inspecting templates",
	}

	rootCmd.AddCommand(commands.NewGenerateCmd())
	rootCmd.AddCommand(commands.NewReportCmd())
	rootCmd.AddCommand(commands.NewTemplatesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
