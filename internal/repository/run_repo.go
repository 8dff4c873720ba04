package repository

import (
	"context"

	"github.com/user/listing-collector/internal/entity"
)

// RunRepository defines the interface for storing finished collection runs.
type RunRepository interface {
	// Save stores the run and its collected items.
	Save(ctx context.Context, report *entity.RunReport) error
	// FindLatestBySourceURL retrieves the most recent run for a listing URL.
	// It returns ErrNotFound when the URL has never completed a run.
	FindLatestBySourceURL(ctx context.Context, sourceURL string) (*entity.RunReport, error)
}
