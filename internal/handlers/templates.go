package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/benvon/task-metrics/internal/database"
	"github.com/benvon/task-metrics/internal/models"
	"github.com/benvon/task-metrics/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// TemplateHandler handles recurring-task template requests
type TemplateHandler struct {
	templateRepo database.TemplateRepositoryInterface
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateRepo database.TemplateRepositoryInterface) *TemplateHandler {
	return &TemplateHandler{templateRepo: templateRepo}
}

// RegisterRoutes registers template routes on the given router
func (h *TemplateHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTemplates).Methods("GET")
	r.HandleFunc("", h.CreateTemplate).Methods("POST")
	r.HandleFunc("/{id}", h.GetTemplate).Methods("GET")
	r.HandleFunc("/{id}", h.DeleteTemplate).Methods("DELETE")
}

// CreateTemplateRequest represents a create template request.
// ActiveDays holds weekday integers, Monday=0 through Sunday=6.
type CreateTemplateRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Metric     string `json:"metric" validate:"required,metric_kind"`
	Goal       *int   `json:"goal,omitempty" validate:"omitempty,min=0"`
	Color      string `json:"color,omitempty" validate:"omitempty,max=32"`
	ActiveDays []int  `json:"active_days" validate:"required,min=1,dive,weekday"`
}

// ListTemplates lists all templates
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateRepo.List(r.Context())
	if err != nil {
		respondRepoError(w, err, "Templates")
		return
	}
	if templates == nil {
		templates = []*models.Template{}
	}

	respondJSON(w, http.StatusOK, templates)
}

// CreateTemplate creates a new recurring-task template
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
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

	// Struct tags catch range errors; duplicates need the explicit check
	if err := validation.ValidateActiveDays(req.ActiveDays); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
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

	template := &models.Template{
		ID:         uuid.New(),
		Name:       req.Name,
		Metric:     models.MetricKind(req.Metric),
		Goal:       req.Goal,
		Color:      color,
		ActiveDays: req.ActiveDays,
	}

	if err := h.templateRepo.Create(r.Context(), template); err != nil {
		respondRepoError(w, err, "Template")
		return
	}

	respondJSON(w, http.StatusCreated, template)
}

// GetTemplate retrieves a template by ID
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid template ID")
		return
	}

	template, err := h.templateRepo.GetByID(r.Context(), id)
	if err != nil {
		respondRepoError(w, err, "Template")
		return
	}

	respondJSON(w, http.StatusOK, template)
}

// DeleteTemplate deletes a template. Daily task instances already generated
// from it are kept.
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid template ID")
		return
	}

	if err := h.templateRepo.Delete(r.Context(), id); err != nil {
		respondRepoError(w, err, "Template")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
