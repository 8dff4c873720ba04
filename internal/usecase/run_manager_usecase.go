package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/internal/repository"
	"github.com/user/listing-collector/pkg/metrics"
)

const defaultSubmissionExpiry = 48 * time.Hour

// RunManager defines the interface for submitting and checking collection runs.
type RunManager interface {
	Submit(ctx context.Context, sourceURL string, count int, force bool) (string, error)
	GetStatus(ctx context.Context, sourceURL string) (*entity.RunStatus, error)
}

type runManagerUseCase struct {
	submissionRepo repository.SubmissionRepository
	queueRepo      repository.QueueRepository
	runRepo        repository.RunRepository
	failedRunRepo  repository.FailedRunRepository
	expiry         time.Duration
	now            func() time.Time
}

// NewRunManager creates a new RunManager use case. A non-positive expiry
// falls back to 48 hours.
func NewRunManager(
	submissionRepo repository.SubmissionRepository,
	queueRepo repository.QueueRepository,
	runRepo repository.RunRepository,
	failedRunRepo repository.FailedRunRepository,
	expiry time.Duration,
) RunManager {
	if expiry <= 0 {
		expiry = defaultSubmissionExpiry
	}
	return &runManagerUseCase{
		submissionRepo: submissionRepo,
		queueRepo:      queueRepo,
		runRepo:        runRepo,
		failedRunRepo:  failedRunRepo,
		expiry:         expiry,
		now:            time.Now,
	}
}

// Submit queues a collection run and returns its ID.
func (uc *runManagerUseCase) Submit(ctx context.Context, sourceURL string, count int, force bool) (string, error) {
	if count <= 0 {
		return "", ErrInvalidCount
	}
	if err := validateSourceURL(sourceURL); err != nil {
		return "", err
	}

	if force {
		if err := uc.submissionRepo.RemoveSubmitted(ctx, sourceURL); err != nil {
			slog.Warn("Failed to clear submission marker for forced run", "url", sourceURL, "error", err)
		}
	} else {
		submitted, err := uc.submissionRepo.IsSubmitted(ctx, sourceURL)
		if err != nil {
			return "", fmt.Errorf("failed to check submission marker: %w", err)
		}
		if submitted {
			return "", ErrRunRecentlySubmitted
		}
	}

	req := &entity.RunRequest{
		ID:           uuid.New(),
		SourceURL:    sourceURL,
		DesiredCount: count,
		SubmittedAt:  uc.now().UTC(),
	}
	if err := uc.queueRepo.Push(ctx, req); err != nil {
		return "", fmt.Errorf("failed to queue run: %w", err)
	}
	if size, err := uc.queueRepo.Size(ctx); err == nil {
		metrics.RunsInQueue.Set(float64(size))
	}

	if err := uc.submissionRepo.MarkSubmitted(ctx, sourceURL, uc.expiry); err != nil {
		// The run is queued; a missing marker only allows a duplicate submission.
		slog.Error("Failed to mark listing as submitted after queueing", "url", sourceURL, "error", err)
	}

	slog.Info("Run submitted", "run_id", req.ID, "url", sourceURL, "count", count, "force", force)
	return req.ID.String(), nil
}

// GetStatus reports failed, completed, pending or not_found, checked in that
// order.
func (uc *runManagerUseCase) GetStatus(ctx context.Context, sourceURL string) (*entity.RunStatus, error) {
	failed, err := uc.failedRunRepo.FindBySourceURL(ctx, sourceURL)
	switch {
	case err == nil:
		return &entity.RunStatus{
			SourceURL:     sourceURL,
			CurrentStatus: entity.RunStatusFailed,
			NextRetryAt:   &failed.NextRetryAt,
			FailureReason: failed.FailureReason,
		}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to look up failed run: %w", err)
	}

	report, err := uc.runRepo.FindLatestBySourceURL(ctx, sourceURL)
	switch {
	case err == nil:
		return &entity.RunStatus{
			SourceURL:      sourceURL,
			CurrentStatus:  entity.RunStatusCompleted,
			LastRunID:      report.ID.String(),
			CollectedCount: len(report.Items),
			Outcome:        report.Outcome,
			FinishedAt:     &report.FinishedAt,
		}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to look up latest run: %w", err)
	}

	submitted, err := uc.submissionRepo.IsSubmitted(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to check submission marker: %w", err)
	}
	if submitted {
		return &entity.RunStatus{SourceURL: sourceURL, CurrentStatus: entity.RunStatusPending}, nil
	}

	return &entity.RunStatus{SourceURL: sourceURL, CurrentStatus: entity.RunStatusNotFound}, nil
}
