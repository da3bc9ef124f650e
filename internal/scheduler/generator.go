// Package scheduler materializes daily task instances from templates and
// folds their summaries into daily completion reports.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/benvon/task-metrics/internal/database"
	"github.com/benvon/task-metrics/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Generator materializes daily task instances for a calendar day.
// Generation is idempotent: the storage layer's uniqueness constraint on
// (template_id, for_date) guarantees at most one instance per pair, so the
// generator takes no locks and is safe to invoke concurrently.
type Generator struct {
	templates database.TemplateRepositoryInterface
	tasks     database.TaskRepositoryInterface
	logger    *zap.Logger
}

// NewGenerator creates a new daily generator
func NewGenerator(templates database.TemplateRepositoryInterface, tasks database.TaskRepositoryInterface, logger *zap.Logger) *Generator {
	return &Generator{
		templates: templates,
		tasks:     tasks,
		logger:    logger,
	}
}

// GenerationResult reports which templates produced a new instance and which
// were skipped because an instance for the date already existed
type GenerationResult struct {
	Date    models.Date    `json:"date"`
	Created []*models.Task `json:"created"`
	Skipped []uuid.UUID    `json:"skipped"`
}

// Generate ensures exactly one daily task instance exists for every template
// active on the date's weekday. Each insert is attempted unconditionally; a
// uniqueness violation means another caller (or an earlier run) already
// generated that instance, and the template is reported as skipped rather
// than as an error. Rerunning for the same date therefore always converges on
// the same instance set, with at most one caller observing "created" per
// template.
func (g *Generator) Generate(ctx context.Context, date models.Date) (*GenerationResult, error) {
	weekday := date.Weekday()
	if weekday < 0 {
		return nil, fmt.Errorf("invalid date %q", date)
	}

	templates, err := g.templates.ListActiveOn(ctx, weekday)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates for weekday %d: %w", weekday, err)
	}

	result := &GenerationResult{
		Date:    date,
		Created: []*models.Task{},
		Skipped: []uuid.UUID{},
	}

	for _, template := range templates {
		instance := instanceFromTemplate(template, date)

		err := g.tasks.CreateDailyInstance(ctx, instance)
		if errors.Is(err, database.ErrDuplicate) {
			result.Skipped = append(result.Skipped, template.ID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to generate instance for template %s: %w", template.ID, err)
		}

		result.Created = append(result.Created, instance)
	}

	g.logger.Info("daily_generation_complete",
		zap.String("date", date.String()),
		zap.Int("weekday", weekday),
		zap.Int("active_templates", len(templates)),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)

	return result, nil
}

// instanceFromTemplate builds the concrete task a template materializes into
// for one date. The instance is a full task and accumulates events like any
// other.
func instanceFromTemplate(template *models.Template, date models.Date) *models.Task {
	templateID := template.ID
	forDate := date
	return &models.Task{
		ID:         uuid.New(),
		Name:       template.Name,
		Metric:     template.Metric,
		Goal:       template.Goal,
		Color:      template.Color,
		TemplateID: &templateID,
		ForDate:    &forDate,
	}
}
