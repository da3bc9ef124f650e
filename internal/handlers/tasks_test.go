package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benvon/task-metrics/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func intPtr(v int) *int {
	return &v
}

func newTaskRouter(taskRepo *fakeTaskRepo, eventRepo *fakeEventRepo) *mux.Router {
	r := mux.NewRouter()
	handler := NewTaskHandler(taskRepo, eventRepo)
	handler.RegisterRoutes(r.PathPrefix("/tasks").Subrouter())
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedTask(repo *fakeTaskRepo, metric models.MetricKind, goal *int) *models.Task {
	task := &models.Task{
		ID:        uuid.New(),
		Name:      "seeded",
		Metric:    metric,
		Goal:      goal,
		Color:     models.DefaultColor,
		CreatedAt: time.Now(),
	}
	repo.tasks[task.ID] = task
	return task
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           map[string]any
		expectedStatus int
	}{
		{
			name:           "valid count task",
			body:           map[string]any{"name": "pushups", "metric": "count", "goal": 5},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "valid check task without goal",
			body:           map[string]any{"name": "vitamins", "metric": "check"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			body:           map[string]any{"metric": "count"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown metric",
			body:           map[string]any{"name": "x", "metric": "streak"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative goal",
			body:           map[string]any{"name": "x", "metric": "count", "goal": -1},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTaskRouter(newFakeTaskRepo(), newFakeEventRepo())
			rec := doJSON(t, router, "POST", "/tasks", tt.body)
			if rec.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateTask_DefaultColor(t *testing.T) {
	t.Parallel()

	taskRepo := newFakeTaskRepo()
	router := newTaskRouter(taskRepo, newFakeEventRepo())

	rec := doJSON(t, router, "POST", "/tasks", map[string]any{"name": "pushups", "metric": "count"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data models.Task `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if envelope.Data.Color != models.DefaultColor {
		t.Errorf("Expected default color %q, got %q", models.DefaultColor, envelope.Data.Color)
	}
}

func TestRecordEvent_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		metric         models.MetricKind
		body           map[string]any
		expectedStatus int
	}{
		{
			name:           "increment without value",
			metric:         models.MetricCount,
			body:           map[string]any{"type": "increment"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "increment with value",
			metric:         models.MetricCount,
			body:           map[string]any{"type": "increment", "value": 3},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "increment with negative value",
			metric:         models.MetricCount,
			body:           map[string]any{"type": "increment", "value": -1},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown event type",
			metric:         models.MetricCount,
			body:           map[string]any{"type": "decrement"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "timer_stop without value",
			metric:         models.MetricTimer,
			body:           map[string]any{"type": "timer_stop"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "timer_stop with negative value",
			metric:         models.MetricTimer,
			body:           map[string]any{"type": "timer_stop", "value": -10},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "timer_stop with value",
			metric:         models.MetricTimer,
			body:           map[string]any{"type": "timer_stop", "value": 300},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "timer_start with value",
			metric:         models.MetricTimer,
			body:           map[string]any{"type": "timer_start", "value": 1},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "check with value",
			metric:         models.MetricCheck,
			body:           map[string]any{"type": "check", "value": 1},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "check without value",
			metric:         models.MetricCheck,
			body:           map[string]any{"type": "check"},
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			taskRepo := newFakeTaskRepo()
			eventRepo := newFakeEventRepo()
			task := seedTask(taskRepo, tt.metric, nil)
			router := newTaskRouter(taskRepo, eventRepo)

			rec := doJSON(t, router, "POST", fmt.Sprintf("/tasks/%s/events", task.ID), tt.body)
			if rec.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}

			// Rejected events must never be partially applied
			if tt.expectedStatus != http.StatusCreated {
				if events, _ := eventRepo.ListByTask(nil, task.ID); len(events) != 0 {
					t.Errorf("Rejected event was appended to the log")
				}
			}
		})
	}
}

func TestRecordEvent_TimerStartConflict(t *testing.T) {
	t.Parallel()

	taskRepo := newFakeTaskRepo()
	eventRepo := newFakeEventRepo()
	task := seedTask(taskRepo, models.MetricTimer, intPtr(10))
	router := newTaskRouter(taskRepo, eventRepo)

	path := fmt.Sprintf("/tasks/%s/events", task.ID)

	rec := doJSON(t, router, "POST", path, map[string]any{"type": "timer_start"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected first timer_start to succeed, got %d", rec.Code)
	}

	// Second start while the session is open is a conflict
	rec = doJSON(t, router, "POST", path, map[string]any{"type": "timer_start"})
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate timer_start, got %d", rec.Code)
	}

	// Stopping frees the task for another session
	rec = doJSON(t, router, "POST", path, map[string]any{"type": "timer_stop", "value": 120})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected timer_stop to succeed, got %d", rec.Code)
	}
	rec = doJSON(t, router, "POST", path, map[string]any{"type": "timer_start"})
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected timer_start after stop to succeed, got %d", rec.Code)
	}
}

func TestRecordEvent_UnknownTask(t *testing.T) {
	t.Parallel()

	router := newTaskRouter(newFakeTaskRepo(), newFakeEventRepo())

	rec := doJSON(t, router, "POST", fmt.Sprintf("/tasks/%s/events", uuid.New()), map[string]any{"type": "check"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown task, got %d", rec.Code)
	}
}

func TestGetSummary_ShapePerMetric(t *testing.T) {
	t.Parallel()

	taskRepo := newFakeTaskRepo()
	eventRepo := newFakeEventRepo()
	router := newTaskRouter(taskRepo, eventRepo)

	countTask := seedTask(taskRepo, models.MetricCount, intPtr(5))
	for _, v := range []int{1, 1, 3} {
		value := v
		_ = eventRepo.Append(nil, &models.Event{
			ID: uuid.New(), TaskID: countTask.ID, Type: models.EventIncrement, Value: &value, CreatedAt: time.Now(),
		})
	}

	rec := doJSON(t, router, "GET", fmt.Sprintf("/tasks/%s/summary", countTask.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data models.Summary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if envelope.Data.Total == nil || *envelope.Data.Total != 5 {
		t.Errorf("Expected total=5, got %v", envelope.Data.Total)
	}
	if envelope.Data.Done != nil || envelope.Data.TotalSec != nil {
		t.Error("Count summary must not carry done or total_sec")
	}

	checkTask := seedTask(taskRepo, models.MetricCheck, nil)
	rec = doJSON(t, router, "GET", fmt.Sprintf("/tasks/%s/summary", checkTask.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if envelope.Data.Done == nil || *envelope.Data.Done {
		t.Errorf("Expected done=false for unchecked task, got %v", envelope.Data.Done)
	}
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	taskRepo := newFakeTaskRepo()
	router := newTaskRouter(taskRepo, newFakeEventRepo())
	task := seedTask(taskRepo, models.MetricCount, nil)

	rec := doJSON(t, router, "DELETE", fmt.Sprintf("/tasks/%s", task.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}

	rec = doJSON(t, router, "DELETE", fmt.Sprintf("/tasks/%s", task.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on double delete, got %d", rec.Code)
	}
}

func TestGetTask_InvalidID(t *testing.T) {
	t.Parallel()

	router := newTaskRouter(newFakeTaskRepo(), newFakeEventRepo())

	rec := doJSON(t, router, "GET", "/tasks/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed id, got %d", rec.Code)
	}
}
