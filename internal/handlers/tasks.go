package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/benvon/task-metrics/internal/database"
	"github.com/benvon/task-metrics/internal/metrics"
	"github.com/benvon/task-metrics/internal/models"
	"github.com/benvon/task-metrics/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// TaskHandler handles task and event requests
type TaskHandler struct {
	taskRepo  database.TaskRepositoryInterface
	eventRepo database.EventRepositoryInterface
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskRepo database.TaskRepositoryInterface, eventRepo database.EventRepositoryInterface) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo, eventRepo: eventRepo}
}

// RegisterRoutes registers task routes on the given router
// The router should already have the /tasks prefix (e.g., from apiRouter.PathPrefix("/tasks"))
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/{id}", h.GetTask).Methods("GET")
	r.HandleFunc("/{id}", h.DeleteTask).Methods("DELETE")
	r.HandleFunc("/{id}/events", h.RecordEvent).Methods("POST")
	r.HandleFunc("/{id}/summary", h.GetSummary).Methods("GET")
}

const (
	// MaxTaskNameLength is the maximum length for task names
	MaxTaskNameLength = 200
	// MaxColorLength is the maximum length for color strings
	MaxColorLength = 32
)

// CreateTaskRequest represents a create task request
type CreateTaskRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Metric string `json:"metric" validate:"required,metric_kind"`
	Goal   *int   `json:"goal,omitempty" validate:"omitempty,min=0"`
	Color  string `json:"color,omitempty" validate:"omitempty,max=32"`
}

// RecordEventRequest represents an event append request
type RecordEventRequest struct {
	Type  string `json:"type" validate:"required,event_type"`
	Value *int   `json:"value,omitempty"`
}

// ListTasks lists all ad hoc tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskRepo.List(r.Context())
	if err != nil {
		respondRepoError(w, err, "Tasks")
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}

	respondJSON(w, http.StatusOK, tasks)
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	req.Name = validation.SanitizeText(req.Name)
	if req.Name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name is required and cannot be empty after sanitization")
		return
	}

	color := req.Color
	if color == "" {
		color = models.DefaultColor
	}

	task := &models.Task{
		ID:     uuid.New(),
		Name:   req.Name,
		Metric: models.MetricKind(req.Metric),
		Goal:   req.Goal,
		Color:  color,
	}

	if err := h.taskRepo.Create(r.Context(), task); err != nil {
		respondRepoError(w, err, "Task")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// GetTask retrieves a task by ID
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.taskFromPath(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task and its event log
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}

	if err := h.taskRepo.Delete(r.Context(), id); err != nil {
		respondRepoError(w, err, "Task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RecordEvent appends an activity event to a task's log. Malformed events
// are rejected here, at the write boundary, so aggregation can assume a
// well-formed log: value shape is checked against the event type, and a
// timer_start while a session is already open is a conflict.
func (h *TaskHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	task, ok := h.taskFromPath(w, r)
	if !ok {
		return
	}

	var req RecordEventRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed: invalid event type")
		return
	}

	eventType := models.EventType(req.Type)
	if err := validateEventValue(eventType, req.Value); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	ctx := r.Context()

	if eventType == models.EventTimerStart {
		events, err := h.eventRepo.ListByTask(ctx, task.ID)
		if err != nil {
			respondRepoError(w, err, "Events")
			return
		}
		if metrics.TimerRunning(events) {
			respondJSONError(w, http.StatusConflict, "Conflict", "A timer is already running for this task")
			return
		}
	}

	event := &models.Event{
		ID:     uuid.New(),
		TaskID: task.ID,
		Type:   eventType,
		Value:  req.Value,
	}

	if err := h.eventRepo.Append(ctx, event); err != nil {
		respondRepoError(w, err, "Event")
		return
	}

	respondJSON(w, http.StatusCreated, event)
}

// GetSummary computes the task's summary fresh from its event log
func (h *TaskHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	task, ok := h.taskFromPath(w, r)
	if !ok {
		return
	}

	events, err := h.eventRepo.ListByTask(r.Context(), task.ID)
	if err != nil {
		respondRepoError(w, err, "Events")
		return
	}

	respondJSON(w, http.StatusOK, metrics.Summarize(task, events))
}

// taskFromPath resolves the {id} path variable to a task, writing the error
// response itself when the id is malformed or unknown
func (h *TaskHandler) taskFromPath(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return nil, false
	}

	task, err := h.taskRepo.GetByID(r.Context(), id)
	if err != nil {
		respondRepoError(w, err, "Task")
		return nil, false
	}

	return task, true
}

// validateEventValue enforces the per-type value shape: timer_stop requires a
// non-negative duration in seconds, increment may carry a non-negative count,
// timer_start and check must not carry a value
func validateEventValue(eventType models.EventType, value *int) error {
	switch eventType {
	case models.EventTimerStop:
		if value == nil {
			return fmt.Errorf("value is required for timer_stop events (duration in seconds)")
		}
		if *value < 0 {
			return fmt.Errorf("value must be non-negative for timer_stop events, got %d", *value)
		}
	case models.EventIncrement:
		if value != nil && *value < 0 {
			return fmt.Errorf("value must be non-negative for increment events, got %d", *value)
		}
	case models.EventTimerStart, models.EventCheck:
		if value != nil {
			return fmt.Errorf("value must be absent for %s events", eventType)
		}
	}
	return nil
}
