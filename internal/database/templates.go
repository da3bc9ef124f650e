package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/benvon/task-metrics/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TemplateRepository handles template database operations
type TemplateRepository struct {
	db *DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create creates a new template
func (r *TemplateRepository) Create(ctx context.Context, template *models.Template) error {
	query := `
		INSERT INTO templates (id, name, metric, goal, color, active_days, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		template.ID,
		template.Name,
		template.Metric,
		nullableInt(template.Goal),
		template.Color,
		pq.Array(toInt64(template.ActiveDays)),
		time.Now(),
	).Scan(&template.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

// GetByID retrieves a template by ID
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	query := `
		SELECT id, name, metric, goal, color, active_days, created_at
		FROM templates
		WHERE id = $1
	`

	template, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return template, nil
}

// List retrieves all templates, newest first
func (r *TemplateRepository) List(ctx context.Context) ([]*models.Template, error) {
	query := `
		SELECT id, name, metric, goal, color, active_days, created_at
		FROM templates
		ORDER BY created_at DESC
	`

	return r.queryTemplates(ctx, query)
}

// ListActiveOn retrieves templates active on the given weekday (Monday=0)
func (r *TemplateRepository) ListActiveOn(ctx context.Context, weekday int) ([]*models.Template, error) {
	query := `
		SELECT id, name, metric, goal, color, active_days, created_at
		FROM templates
		WHERE $1 = ANY(active_days)
		ORDER BY created_at ASC, id ASC
	`

	return r.queryTemplates(ctx, query, weekday)
}

// Delete deletes a template by ID. Already-generated daily task instances
// keep their template_id tag and are not touched.
func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *TemplateRepository) queryTemplates(ctx context.Context, query string, args ...any) ([]*models.Template, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	return templates, nil
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	template := &models.Template{}
	var goal sql.NullInt64
	var activeDays pq.Int64Array

	err := row.Scan(
		&template.ID,
		&template.Name,
		&template.Metric,
		&goal,
		&template.Color,
		&activeDays,
		&template.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if goal.Valid {
		g := int(goal.Int64)
		template.Goal = &g
	}
	template.ActiveDays = toInt(activeDays)

	return template, nil
}

func toInt64(days []int) []int64 {
	out := make([]int64, len(days))
	for i, d := range days {
		out[i] = int64(d)
	}
	return out
}

func toInt(days []int64) []int {
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return out
}
