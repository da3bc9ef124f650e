package scheduler

import (
	"context"
	"fmt"
	"math"

	"github.com/benvon/task-metrics/internal/database"
	"github.com/benvon/task-metrics/internal/metrics"
	"github.com/benvon/task-metrics/internal/models"
)

// Reporter folds per-instance summaries into a daily completion report.
// Reporting is a pure read: it never writes and tolerates days with no
// generated instances.
type Reporter struct {
	tasks  database.TaskRepositoryInterface
	events database.EventRepositoryInterface
}

// NewReporter creates a new daily reporter
func NewReporter(tasks database.TaskRepositoryInterface, events database.EventRepositoryInterface) *Reporter {
	return &Reporter{
		tasks:  tasks,
		events: events,
	}
}

// Report computes the completion report for a date. A task counts as
// completed per the metric-specific predicate: checked, count total at or
// above goal, or timer seconds at or above goal minutes; tasks without a goal
// are never counted complete. A date with no instances yields a zeroed
// report, not an error.
func (r *Reporter) Report(ctx context.Context, date models.Date) (*models.DailyReport, error) {
	instances, err := r.tasks.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily tasks for %s: %w", date, err)
	}

	report := &models.DailyReport{Date: date}
	report.TotalTasks = len(instances)

	for _, task := range instances {
		switch task.Metric {
		case models.MetricCount:
			report.Metrics.Count++
		case models.MetricTimer:
			report.Metrics.Timer++
		case models.MetricCheck:
			report.Metrics.Check++
		}

		events, err := r.events.ListByTask(ctx, task.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load events for task %s: %w", task.ID, err)
		}

		summary := metrics.Summarize(task, events)
		if metrics.Done(task, summary) {
			report.CompletedTasks++
		}
	}

	if report.TotalTasks > 0 {
		rate := float64(report.CompletedTasks) / float64(report.TotalTasks) * 100
		report.CompletionRate = int(math.Round(rate))
	}

	return report, nil
}
