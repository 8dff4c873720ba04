package repository

import (
	"context"
	"time"
)

// SubmissionRepository deduplicates run submissions per listing URL.
type SubmissionRepository interface {
	// MarkSubmitted marks a listing URL as submitted with a specific expiry time.
	MarkSubmitted(ctx context.Context, sourceURL string, expiry time.Duration) error
	// IsSubmitted checks if a listing URL has been submitted recently.
	IsSubmitted(ctx context.Context, sourceURL string) (bool, error)
	// RemoveSubmitted clears the marker, used for forced submissions.
	RemoveSubmitted(ctx context.Context, sourceURL string) error
}
