package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/benvon/task-metrics/internal/database"
	"github.com/benvon/task-metrics/internal/models"
	"github.com/benvon/task-metrics/internal/scheduler"
	"github.com/gorilla/mux"
)

// DailyHandler handles daily generation, listing, and reporting requests
type DailyHandler struct {
	generator *scheduler.Generator
	reporter  *scheduler.Reporter
	taskRepo  database.TaskRepositoryInterface
}

// NewDailyHandler creates a new daily handler
func NewDailyHandler(generator *scheduler.Generator, reporter *scheduler.Reporter, taskRepo database.TaskRepositoryInterface) *DailyHandler {
	return &DailyHandler{
		generator: generator,
		reporter:  reporter,
		taskRepo:  taskRepo,
	}
}

// RegisterRoutes registers daily routes on the given router
func (h *DailyHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListDailyTasks).Methods("GET")
	r.HandleFunc("/generate", h.GenerateDailyTasks).Methods("POST")
	r.HandleFunc("/report", h.GetDailyReport).Methods("GET")
}

// GenerateDailyTasksRequest represents a generation request
type GenerateDailyTasksRequest struct {
	Date string `json:"date"`
}

// GenerateDailyTasks materializes instances for every template active on the
// date's weekday. Safe to call repeatedly and concurrently; templates whose
// instance already exists come back in the skipped list.
func (h *DailyHandler) GenerateDailyTasks(w http.ResponseWriter, r *http.Request) {
	var req GenerateDailyTasksRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	result, err := h.generator.Generate(r.Context(), date)
	if err != nil {
		respondRepoError(w, err, "Daily tasks")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListDailyTasks lists the instances generated for a date
func (h *DailyHandler) ListDailyTasks(w http.ResponseWriter, r *http.Request) {
	date, ok := dateFromQuery(w, r)
	if !ok {
		return
	}

	tasks, err := h.taskRepo.ListByDate(r.Context(), date)
	if err != nil {
		respondRepoError(w, err, "Daily tasks")
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}

	respondJSON(w, http.StatusOK, tasks)
}

// GetDailyReport computes the completion report for a date
func (h *DailyHandler) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	date, ok := dateFromQuery(w, r)
	if !ok {
		return
	}

	report, err := h.reporter.Report(r.Context(), date)
	if err != nil {
		respondRepoError(w, err, "Daily report")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// dateFromQuery parses the required ?date= parameter, writing the error
// response itself when it is missing or malformed
func dateFromQuery(w http.ResponseWriter, r *http.Request) (models.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "date query parameter is required (YYYY-MM-DD)")
		return "", false
	}

	date, err := models.ParseDate(raw)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return "", false
	}

	return date, true
}
