// Package metrics derives task summaries from append-only event logs.
// All functions are pure: they never touch storage and never mutate their
// inputs, so summaries are trivially reconstructable and auditable.
package metrics

import (
	"sort"

	"github.com/benvon/task-metrics/internal/models"
)

// Summarize computes the metric-specific summary for a task from its event
// log. The result depends only on the set of events: events are ordered by
// created_at ascending with ties broken by id, so interleaving with events of
// other tasks or out-of-order delivery from the store cannot change the
// outcome.
//
// Per metric kind:
//   - count: Total = sum of increment values (default 1). Exceeding the goal
//     is a valid, displayed state, not an error.
//   - timer: TotalSec = sum of timer_stop values. A timer_start with no
//     matching stop contributes nothing; only committed durations count.
//   - check: Done = true iff at least one check event exists. Repeated checks
//     keep Done true, so checking is idempotent by construction.
//
// Malformed events are rejected at the write boundary; Summarize assumes a
// well-formed log and ignores event types that don't apply to the metric.
func Summarize(task *models.Task, events []*models.Event) models.Summary {
	events = sortedCopy(events)

	summary := models.Summary{Metric: task.Metric}

	switch task.Metric {
	case models.MetricCount:
		total := 0
		for _, e := range events {
			if e.Type == models.EventIncrement {
				total += e.EffectiveValue()
			}
		}
		summary.Total = &total
		summary.Goal = task.Goal

	case models.MetricTimer:
		totalSec := 0
		for _, e := range events {
			if e.Type == models.EventTimerStop && e.Value != nil {
				totalSec += *e.Value
			}
		}
		summary.TotalSec = &totalSec
		summary.Goal = task.Goal

	case models.MetricCheck:
		done := false
		for _, e := range events {
			if e.Type == models.EventCheck {
				done = true
				break
			}
		}
		summary.Done = &done
	}

	return summary
}

// Done reports whether a task counts as completed for daily reporting.
// Check tasks are done once checked. Count and timer tasks are done only when
// a goal is set and reached; without a goal they are never counted complete.
// Timer goals are minutes, compared against accumulated seconds.
func Done(task *models.Task, summary models.Summary) bool {
	switch task.Metric {
	case models.MetricCheck:
		return summary.Done != nil && *summary.Done
	case models.MetricCount:
		return task.Goal != nil && summary.Total != nil && *summary.Total >= *task.Goal
	case models.MetricTimer:
		return task.Goal != nil && summary.TotalSec != nil && *summary.TotalSec >= *task.Goal*60
	}
	return false
}

// TimerRunning reports whether the task's most recent timer event is an
// unmatched timer_start. Used at the write boundary to reject a second
// timer_start while a session is open.
func TimerRunning(events []*models.Event) bool {
	events = sortedCopy(events)
	running := false
	for _, e := range events {
		switch e.Type {
		case models.EventTimerStart:
			running = true
		case models.EventTimerStop:
			running = false
		}
	}
	return running
}

// sortedCopy returns the events ordered by created_at ascending, ties broken
// by id so replay order is deterministic even for equal timestamps
func sortedCopy(events []*models.Event) []*models.Event {
	sorted := make([]*models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID.String() < sorted[j].ID.String()
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}
