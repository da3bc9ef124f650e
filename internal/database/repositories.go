package database

import (
	"context"

	"github.com/benvon/task-metrics/internal/models"
	"github.com/google/uuid"
)

// TaskRepositoryInterface defines the interface for task repository operations
// This interface enables better testability by allowing mock implementations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	CreateDailyInstance(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context) ([]*models.Task, error)
	ListByDate(ctx context.Context, date models.Date) ([]*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventRepositoryInterface defines the interface for event repository operations
type EventRepositoryInterface interface {
	Append(ctx context.Context, event *models.Event) error
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Event, error)
}

// TemplateRepositoryInterface defines the interface for template repository operations
type TemplateRepositoryInterface interface {
	Create(ctx context.Context, template *models.Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	List(ctx context.Context) ([]*models.Template, error)
	ListActiveOn(ctx context.Context, weekday int) ([]*models.Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Ensure concrete types implement the interfaces
var (
	_ TaskRepositoryInterface     = (*TaskRepository)(nil)
	_ EventRepositoryInterface    = (*EventRepository)(nil)
	_ TemplateRepositoryInterface = (*TemplateRepository)(nil)
)
