package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/benvon/task-metrics/internal/config"
	"github.com/benvon/task-metrics/internal/database"
	"github.com/benvon/task-metrics/internal/models"
	"github.com/benvon/task-metrics/internal/queue"
	"github.com/benvon/task-metrics/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var dateFlag string
	var enqueueFlag bool
	var delayFlag time.Duration

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate daily task instances",
		Long:  "Materialize one task instance per template active on the date's weekday. Rerunning is safe; existing instances are skipped.",
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

			ctx := context.Background()

			if enqueueFlag {
				jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
				if err != nil {
					return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
				}
				defer func() {
					if err := jobQueue.Close(); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: failed to close RabbitMQ: %v\n", err)
					}
				}()

				job := queue.NewDailyGenerationJob(date)
				if delayFlag > 0 {
					notBefore := time.Now().Add(delayFlag)
					job.NotBefore = &notBefore
				}

				if err := jobQueue.Enqueue(ctx, job); err != nil {
					return fmt.Errorf("failed to enqueue generation job: %w", err)
				}

				fmt.Printf("Enqueued generation job %s for %s\n", job.ID, date)
				if job.NotBefore != nil {
					fmt.Printf("  runs no earlier than %s\n", job.NotBefore.Format(time.RFC3339))
				}
				return nil
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

			generator := scheduler.NewGenerator(
				database.NewTemplateRepository(db),
				database.NewTaskRepository(db),
				zap.NewNop(),
			)

			result, err := generator.Generate(ctx, date)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			fmt.Printf("Generated %d instance(s) for %s (%d skipped)\n",
				len(result.Created), result.Date, len(result.Skipped))
			for _, task := range result.Created {
				fmt.Printf("  + %s (%s)\n", task.Name, task.Metric)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&enqueueFlag, "enqueue", false, "Publish a generation job instead of running inline")
	cmd.Flags().DurationVar(&delayFlag, "delay", 0, "Delay before the enqueued job runs (requires --enqueue)")

	return cmd
}
