package queue

import (
	"testing"
	"time"

	"github.com/benvon/task-metrics/internal/models"
	"github.com/google/uuid"
)

func TestNewDailyGenerationJob(t *testing.T) {
	t.Parallel()

	job := NewDailyGenerationJob(models.Date("2025-03-17"))

	if job.Type != JobTypeDailyGeneration {
		t.Errorf("Expected type %q, got %q", JobTypeDailyGeneration, job.Type)
	}
	if job.Date != models.Date("2025-03-17") {
		t.Errorf("Expected date 2025-03-17, got %s", job.Date)
	}
	if job.MaxRetries != DefaultMaxRetries {
		t.Errorf("Expected max retries %d, got %d", DefaultMaxRetries, job.MaxRetries)
	}
	if job.RetryCount != 0 {
		t.Errorf("Expected zero retry count, got %d", job.RetryCount)
	}
	if job.ID == uuid.Nil {
		t.Error("Expected a generated job ID")
	}
}

func TestJobShouldProcess(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name      string
		notBefore *time.Time
		notAfter  *time.Time
		want      bool
	}{
		{name: "no window", want: true},
		{name: "not before in past", notBefore: &past, want: true},
		{name: "not before in future", notBefore: &future, want: false},
		{name: "not after in future", notAfter: &future, want: true},
		{name: "not after in past", notAfter: &past, want: false},
		{name: "inside window", notBefore: &past, notAfter: &future, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			job := NewDailyGenerationJob(models.Date("2025-03-17"))
			job.NotBefore = tt.notBefore
			job.NotAfter = tt.notAfter

			if got := job.ShouldProcess(); got != tt.want {
				t.Errorf("ShouldProcess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJobRetryBudget(t *testing.T) {
	t.Parallel()

	job := NewDailyGenerationJob(models.Date("2025-03-17"))

	for i := 0; i < DefaultMaxRetries; i++ {
		if !job.CanRetry() {
			t.Fatalf("Expected retry budget at attempt %d", i)
		}
		job.IncrementRetry()
	}

	if job.CanRetry() {
		t.Error("Expected retry budget exhausted after max retries")
	}
	if job.RetryCount != DefaultMaxRetries {
		t.Errorf("Expected retry count %d, got %d", DefaultMaxRetries, job.RetryCount)
	}
}
