package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/benvon/task-metrics/internal/config"
	"github.com/benvon/task-metrics/internal/database"
	"github.com/spf13/cobra"
)

var weekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// NewTemplatesCmd creates the templates command
func NewTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List task templates",
		Long:  "List every template with its metric, goal, and active weekdays",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			templateRepo := database.NewTemplateRepository(db)
			templates, err := templateRepo.List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list templates: %w", err)
			}

			if len(templates) == 0 {
				fmt.Println("No templates configured")
				return nil
			}

			fmt.Println("Templates:")
			for _, template := range templates {
				days := make([]string, 0, len(template.ActiveDays))
				for _, d := range template.ActiveDays {
					if d >= 0 && d < len(weekdayNames) {
						days = append(days, weekdayNames[d])
					}
				}

				fmt.Printf("  - %s (%s)\n", template.Name, template.ID)
				fmt.Printf("    Metric: %s\n", template.Metric)
				if template.Goal != nil {
					fmt.Printf("    Goal:   %d\n", *template.Goal)
				}
				fmt.Printf("    Days:   %s\n", strings.Join(days, ", "))
				fmt.Println()
			}

			return nil
		},
	}

	return cmd
}
