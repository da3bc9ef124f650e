package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of an activity event
type EventType string

const (
	EventIncrement  EventType = "increment"
	EventTimerStart EventType = "timer_start"
	EventTimerStop  EventType = "timer_stop"
	EventCheck      EventType = "check"
)

// Event is one append-only activity record for a task. Events are immutable
// once written; summaries are recomputed from the full log on every read.
//
// Value is required (seconds, >= 0) for timer_stop, optional (defaults to 1)
// for increment, and must be absent for timer_start and check. The store
// rejects malformed events at write time so the aggregator can assume a
// well-formed log.
type Event struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	Type      EventType `json:"type"`
	Value     *int      `json:"value,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EffectiveValue returns the contribution of the event to a count total,
// defaulting to 1 when no explicit value was recorded
func (e *Event) EffectiveValue() int {
	if e.Value != nil {
		return *e.Value
	}
	return 1
}
