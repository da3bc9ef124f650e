package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/benvon/task-metrics/internal/models"
	"github.com/google/uuid"
)

// EventRepository handles the append-only event log. Events are never
// updated or deleted individually; they only disappear when their task does.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Append records a new event for a task
func (r *EventRepository) Append(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (id, task_id, type, value, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		event.ID,
		event.TaskID,
		event.Type,
		nullableInt(event.Value),
		time.Now(),
	).Scan(&event.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// ListByTask retrieves a task's full event log in replay order:
// created_at ascending, ties broken by id for deterministic aggregation
func (r *EventRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Event, error) {
	query := `
		SELECT id, task_id, type, value, created_at
		FROM events
		WHERE task_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		var value sql.NullInt64

		err := rows.Scan(
			&event.ID,
			&event.TaskID,
			&event.Type,
			&value,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		if value.Valid {
			v := int(value.Int64)
			event.Value = &v
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}
