package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/benvon/task-metrics/internal/models"
	"github.com/google/uuid"
)

func instance(repo *fakeTaskRepo, date models.Date, metric models.MetricKind, goal *int) *models.Task {
	templateID := uuid.New()
	forDate := date
	task := &models.Task{
		ID:         uuid.New(),
		Name:       "instance",
		Metric:     metric,
		Goal:       goal,
		Color:      models.DefaultColor,
		TemplateID: &templateID,
		ForDate:    &forDate,
	}
	_ = repo.CreateDailyInstance(context.Background(), task)
	return task
}

func appendEvent(repo *fakeEventRepo, taskID uuid.UUID, eventType models.EventType, value *int) {
	_ = repo.Append(context.Background(), &models.Event{
		ID:        uuid.New(),
		TaskID:    taskID,
		Type:      eventType,
		Value:     value,
		CreatedAt: time.Now(),
	})
}

func TestReport_EmptyDate(t *testing.T) {
	t.Parallel()

	reporter := NewReporter(newFakeTaskRepo(), newFakeEventRepo())

	report, err := reporter.Report(context.Background(), monday)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if report.TotalTasks != 0 || report.CompletedTasks != 0 || report.CompletionRate != 0 {
		t.Errorf("Expected zeroed report for empty date, got %+v", report)
	}
	if report.Metrics.Count != 0 || report.Metrics.Timer != 0 || report.Metrics.Check != 0 {
		t.Errorf("Expected zeroed metric breakdown, got %+v", report.Metrics)
	}
}

func TestReport_CompletionAndBreakdown(t *testing.T) {
	t.Parallel()

	taskRepo := newFakeTaskRepo()
	eventRepo := newFakeEventRepo()

	// count task with goal 5 and events summing to 5: complete
	countDone := instance(taskRepo, monday, models.MetricCount, intPtr(5))
	appendEvent(eventRepo, countDone.ID, models.EventIncrement, intPtr(1))
	appendEvent(eventRepo, countDone.ID, models.EventIncrement, intPtr(1))
	appendEvent(eventRepo, countDone.ID, models.EventIncrement, intPtr(3))

	// count task without a goal: never complete regardless of total
	countNoGoal := instance(taskRepo, monday, models.MetricCount, nil)
	appendEvent(eventRepo, countNoGoal.ID, models.EventIncrement, intPtr(100))

	// timer task with 10-minute goal and only 9 minutes committed: incomplete
	timerShort := instance(taskRepo, monday, models.MetricTimer, intPtr(10))
	appendEvent(eventRepo, timerShort.ID, models.EventTimerStop, intPtr(540))

	// check task with a check event: complete
	checked := instance(taskRepo, monday, models.MetricCheck, nil)
	appendEvent(eventRepo, checked.ID, models.EventCheck, nil)

	// instance on another date must not leak into the report
	otherDay := instance(taskRepo, tuesday, models.MetricCheck, nil)
	appendEvent(eventRepo, otherDay.ID, models.EventCheck, nil)

	reporter := NewReporter(taskRepo, eventRepo)

	report, err := reporter.Report(context.Background(), monday)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if report.TotalTasks != 4 {
		t.Errorf("Expected 4 total tasks, got %d", report.TotalTasks)
	}
	if report.CompletedTasks != 2 {
		t.Errorf("Expected 2 completed tasks, got %d", report.CompletedTasks)
	}
	if report.CompletionRate != 50 {
		t.Errorf("Expected completion_rate=50, got %d", report.CompletionRate)
	}
	if report.Metrics.Count != 2 || report.Metrics.Timer != 1 || report.Metrics.Check != 1 {
		t.Errorf("Unexpected metric breakdown: %+v", report.Metrics)
	}
}

func TestReport_CompletionRateRounds(t *testing.T) {
	t.Parallel()

	taskRepo := newFakeTaskRepo()
	eventRepo := newFakeEventRepo()

	done := instance(taskRepo, monday, models.MetricCheck, nil)
	appendEvent(eventRepo, done.ID, models.EventCheck, nil)
	instance(taskRepo, monday, models.MetricCheck, nil)
	instance(taskRepo, monday, models.MetricCheck, nil)

	reporter := NewReporter(taskRepo, eventRepo)

	report, err := reporter.Report(context.Background(), monday)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	// 1 of 3 complete: 33.33 rounds to 33
	if report.CompletionRate != 33 {
		t.Errorf("Expected completion_rate=33, got %d", report.CompletionRate)
	}
}
