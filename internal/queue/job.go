package queue

import (
	"time"

	"github.com/benvon/task-metrics/internal/models"
	"github.com/google/uuid"
)

// JobType identifies the kind of work a job carries
type JobType string

const (
	// JobTypeDailyGeneration materializes daily task instances for a date
	JobTypeDailyGeneration JobType = "daily_generation"
)

// DefaultMaxRetries is the number of processing attempts before a job is dead-lettered
const DefaultMaxRetries = 3

// Job represents a unit of asynchronous work
type Job struct {
	ID         uuid.UUID   `json:"id"`
	Type       JobType     `json:"type"`
	Date       models.Date `json:"date"`
	RetryCount int         `json:"retry_count"`
	MaxRetries int         `json:"max_retries"`
	CreatedAt  time.Time   `json:"created_at"`
	// NotBefore delays processing until the given time (delivered via the delayed exchange)
	NotBefore *time.Time `json:"not_before,omitempty"`
	// NotAfter expires the job after the given time
	NotAfter *time.Time `json:"not_after,omitempty"`
}

// NewDailyGenerationJob creates a job that generates daily task instances for date
func NewDailyGenerationJob(date models.Date) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       JobTypeDailyGeneration,
		Date:       date,
		MaxRetries: DefaultMaxRetries,
		CreatedAt:  time.Now().UTC(),
	}
}

// ShouldProcess reports whether the job is inside its processing window
func (j *Job) ShouldProcess() bool {
	now := time.Now()
	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}
	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}
	return true
}

// CanRetry reports whether the job has retry budget left
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry bumps the retry counter
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
