// Package workers contains the queue consumers run by the worker binary.
package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/task-metrics/internal/models"
	"github.com/benvon/task-metrics/internal/queue"
	"github.com/benvon/task-metrics/internal/scheduler"
	"go.uber.org/zap"
)

// DailyGenerator materializes daily task instances for a date
type DailyGenerator interface {
	Generate(ctx context.Context, date models.Date) (*scheduler.GenerationResult, error)
}

// maxRetryDelay caps the exponential retry backoff
const maxRetryDelay = 5 * time.Minute

// GenerationWorker processes daily generation jobs from the queue
type GenerationWorker struct {
	generator DailyGenerator
	jobQueue  queue.JobQueue // For re-enqueueing jobs with delays
	logger    *zap.Logger
}

// NewGenerationWorker creates a new generation worker
func NewGenerationWorker(generator DailyGenerator, jobQueue queue.JobQueue, logger *zap.Logger) *GenerationWorker {
	return &GenerationWorker{
		generator: generator,
		jobQueue:  jobQueue,
		logger:    logger,
	}
}

// ProcessJob dispatches a queue message to the matching job handler and
// acknowledges it. Failed jobs are re-enqueued with a delay while retry
// budget remains, then dead-lettered.
func (w *GenerationWorker) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if !job.ShouldProcess() {
		w.logger.Info("job_outside_processing_window",
			zap.String("job_id", job.ID.String()),
			zap.Timep("not_before", job.NotBefore),
			zap.Timep("not_after", job.NotAfter),
		)
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack expired job: %w", ackErr)
		}
		return nil
	}

	switch job.Type {
	case queue.JobTypeDailyGeneration:
		if err := w.processDailyGeneration(ctx, job); err != nil {
			return w.handleJobError(ctx, msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	default:
		// Unknown job type, send to DLQ
		if nackErr := msg.Nack(false); nackErr != nil {
			w.logger.Warn("failed_to_nack_unknown_job", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (w *GenerationWorker) processDailyGeneration(ctx context.Context, job *queue.Job) error {
	result, err := w.generator.Generate(ctx, job.Date)
	if err != nil {
		return fmt.Errorf("failed to generate daily tasks for %s: %w", job.Date, err)
	}

	w.logger.Info("daily_generation_job_complete",
		zap.String("job_id", job.ID.String()),
		zap.String("date", job.Date.String()),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return nil
}

// handleJobError re-enqueues the job with exponential backoff while retry
// budget remains, otherwise dead-letters it
func (w *GenerationWorker) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error) error {
	if job.CanRetry() && w.jobQueue != nil {
		notBefore := time.Now().Add(retryDelay(job.RetryCount))

		retryJob := &queue.Job{
			ID:         job.ID,
			Type:       job.Type,
			Date:       job.Date,
			NotBefore:  &notBefore,
			NotAfter:   job.NotAfter,
			CreatedAt:  job.CreatedAt,
			RetryCount: job.RetryCount + 1,
			MaxRetries: job.MaxRetries,
		}

		if ackErr := msg.Ack(); ackErr != nil {
			w.logger.Warn("failed_to_ack_before_retry", zap.Error(ackErr))
		}

		if enqueueErr := w.jobQueue.Enqueue(ctx, retryJob); enqueueErr != nil {
			w.logger.Error("failed_to_reenqueue_job",
				zap.Error(enqueueErr),
				zap.String("job_id", job.ID.String()),
			)
			return fmt.Errorf("failed to re-enqueue job after error: %w (original: %v)", enqueueErr, err)
		}

		w.logger.Warn("job_retry_scheduled",
			zap.String("job_id", job.ID.String()),
			zap.Int("attempt", retryJob.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Time("not_before", notBefore),
			zap.Error(err),
		)
		return nil
	}

	// Retry budget exhausted, dead-letter the message
	if nackErr := msg.Nack(false); nackErr != nil {
		w.logger.Warn("failed_to_nack_exhausted_job", zap.Error(nackErr))
	}
	return fmt.Errorf("job %s failed after %d attempts: %w", job.ID, job.RetryCount, err)
}

// retryDelay returns the backoff before the next attempt, doubling per retry
func retryDelay(retryCount int) time.Duration {
	delay := 10 * time.Second << retryCount
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}
