package repository

import (
	"context"
	"time"

	"github.com/user/listing-collector/internal/entity"
)

// FailedRunRepository defines the interface for managing runs that failed.
type FailedRunRepository interface {
	// SaveOrUpdate creates or updates a record for a failed run. The next
	// retry is scheduled backoff * 2^retry_count after the attempt.
	SaveOrUpdate(ctx context.Context, failed *entity.FailedRun, backoff time.Duration) error
	// FindBySourceURL returns the failure record for a listing URL, or
	// ErrNotFound.
	FindBySourceURL(ctx context.Context, sourceURL string) (*entity.FailedRun, error)
	// ClaimRetryable returns runs that are due for a retry and still have
	// retries left, pushing their next_retry_at out by lease so a second
	// claim does not return them while they wait in the queue.
	ClaimRetryable(ctx context.Context, maxRetries, limit int, lease time.Duration) ([]*entity.FailedRun, error)
	// Delete removes a failed run record, typically after a successful run.
	Delete(ctx context.Context, sourceURL string) error
}
