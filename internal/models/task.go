package models

import (
	"time"

	"github.com/google/uuid"
)

// MetricKind determines how a task's events are interpreted and what shape
// its summary takes
type MetricKind string

const (
	MetricCount MetricKind = "count" // increment per tap
	MetricTimer MetricKind = "timer" // timed sessions, committed on stop
	MetricCheck MetricKind = "check" // checkbox complete
)

// DefaultColor is the tile color used when a create request omits one
const DefaultColor = "#6366F1"

// Task represents a tracked task. A task generated from a template carries
// TemplateID and ForDate; at most one such task exists per (template, date).
type Task struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Metric     MetricKind `json:"metric"`
	Goal       *int       `json:"goal,omitempty"`
	Color      string     `json:"color"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
	ForDate    *Date      `json:"for_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsDailyInstance reports whether the task was generated from a template
func (t *Task) IsDailyInstance() bool {
	return t.TemplateID != nil && t.ForDate != nil
}
