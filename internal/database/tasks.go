package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/benvon/task-metrics/internal/models"
	"github.com/google/uuid"
)

// TaskRepository handles task database operations
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new ad hoc task (no template tag)
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, name, metric, goal, color, template_id, for_date, created_at)
		VALUES ($1, $2, $3, $4, $5, NULL, NULL, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.Name,
		task.Metric,
		nullableInt(task.Goal),
		task.Color,
		time.Now(),
	).Scan(&task.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// CreateDailyInstance inserts a task generated from a template for a date.
// The partial unique index on (template_id, for_date) makes the insert the
// atomic check-and-create the generator relies on: a concurrent or repeated
// attempt for the same pair returns ErrDuplicate instead of a second row.
func (r *TaskRepository) CreateDailyInstance(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, name, metric, goal, color, template_id, for_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.Name,
		task.Metric,
		nullableInt(task.Goal),
		task.Color,
		task.TemplateID,
		string(*task.ForDate),
		time.Now(),
	).Scan(&task.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("instance for template %s on %s: %w", task.TemplateID, *task.ForDate, ErrDuplicate)
		}
		return fmt.Errorf("failed to create daily task instance: %w", err)
	}

	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `
		SELECT id, name, metric, goal, color, template_id, for_date, created_at
		FROM tasks
		WHERE id = $1
	`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// List retrieves all ad hoc tasks, newest first
func (r *TaskRepository) List(ctx context.Context) ([]*models.Task, error) {
	query := `
		SELECT id, name, metric, goal, color, template_id, for_date, created_at
		FROM tasks
		WHERE template_id IS NULL
		ORDER BY created_at DESC
	`

	return r.queryTasks(ctx, query)
}

// ListByDate retrieves all daily task instances generated for a date
func (r *TaskRepository) ListByDate(ctx context.Context, date models.Date) ([]*models.Task, error) {
	query := `
		SELECT id, name, metric, goal, color, template_id, for_date, created_at
		FROM tasks
		WHERE for_date = $1
		ORDER BY created_at ASC, id ASC
	`

	return r.queryTasks(ctx, query, string(date))
}

// Delete deletes a task by ID. Its events are removed in the same
// transaction so a task never survives partially deleted.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE task_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete task events: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task delete: %w", err)
	}

	return nil
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var goal sql.NullInt64
	var templateID uuid.NullUUID
	var forDate sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Metric,
		&goal,
		&task.Color,
		&templateID,
		&forDate,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if goal.Valid {
		g := int(goal.Int64)
		task.Goal = &g
	}
	if templateID.Valid {
		task.TemplateID = &templateID.UUID
	}
	if forDate.Valid {
		d := models.Date(forDate.Time.Format(models.DateLayout))
		task.ForDate = &d
	}

	return task, nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
