package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/benvon/task-metrics/internal/config"
	"github.com/benvon/task-metrics/internal/database"
	"github.com/benvon/task-metrics/internal/models"
	"github.com/benvon/task-metrics/internal/scheduler"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	var dateFlag string
	var yamlFlag bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the daily completion report",
		Long:  "Aggregate the daily task instances for a date into completion counts and a metric breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			date := models.Today()
			if dateFlag != "" {
				parsed, err := models.ParseDate(dateFlag)
				if err != nil {
					return err
				}
				date = parsed
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			reporter := scheduler.NewReporter(
				database.NewTaskRepository(db),
				database.NewEventRepository(db),
			)

			report, err := reporter.Report(context.Background(), date)
			if err != nil {
				return fmt.Errorf("report failed: %w", err)
			}

			if yamlFlag {
				out, err := yaml.Marshal(report)
				if err != nil {
					return fmt.Errorf("failed to marshal report: %w", err)
				}
				fmt.Print(string(out))
				return nil
			}

			fmt.Printf("Daily report for %s\n", report.Date)
			fmt.Printf("  Tasks:      %d\n", report.TotalTasks)
			fmt.Printf("  Completed:  %d\n", report.CompletedTasks)
			fmt.Printf("  Completion: %d%%\n", report.CompletionRate)
			fmt.Printf("  Metrics:    count=%d timer=%d check=%d\n",
				report.Metrics.Count, report.Metrics.Timer, report.Metrics.Check)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Report date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&yamlFlag, "yaml", false, "Print the report as YAML")

	return cmd
}
