package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/internal/repository"
	"github.com/user/listing-collector/pkg/metrics"
)

const (
	initialBackoff = 5 * time.Second
	maxRetries     = 5
	jitterFactor   = 0.2 // +/- 20%

	retryBatchSize      = 10
	retryLease          = 10 * time.Minute
	defaultPollInterval = 2 * time.Second
	requeueTimeout      = 5 * time.Second
)

// RunWorker defines the interface for the background collection process.
type RunWorker interface {
	ProcessNext(ctx context.Context) error
	RequeueRetryable(ctx context.Context, limit int) (int, error)
	Start(ctx context.Context)
}

// WorkerConfig holds the settings applied to every run the worker executes.
type WorkerConfig struct {
	OutputDir     string
	TrimOvershoot bool
	PollInterval  time.Duration
}

type runWorkerUseCase struct {
	queueRepo     repository.QueueRepository
	runRepo       repository.RunRepository
	failedRunRepo repository.FailedRunRepository
	runner        Runner
	cfg           WorkerConfig
	now           func() time.Time
	jitter        func() float64
}

// NewRunWorker creates a new instance of the run worker use case.
func NewRunWorker(
	queueRepo repository.QueueRepository,
	runRepo repository.RunRepository,
	failedRunRepo repository.FailedRunRepository,
	runner Runner,
	cfg WorkerConfig,
) RunWorker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &runWorkerUseCase{
		queueRepo:     queueRepo,
		runRepo:       runRepo,
		failedRunRepo: failedRunRepo,
		runner:        runner,
		cfg:           cfg,
		now:           time.Now,
		jitter:        rand.Float64,
	}
}

// ProcessNext pops a single run from the queue and executes it. An empty
// queue is not an error. A failed run is recorded for retry and is not
// returned as an error either; only infrastructure failures are.
func (uc *runWorkerUseCase) ProcessNext(ctx context.Context) error {
	req, err := uc.queueRepo.Pop(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrQueueEmpty) {
			return nil
		}
		return fmt.Errorf("failed to pop run from queue: %w", err)
	}
	if size, err := uc.queueRepo.Size(ctx); err == nil {
		metrics.RunsInQueue.Set(float64(size))
	}

	slog.Info("Processing run from queue", "run_id", req.ID, "url", req.SourceURL, "count", req.DesiredCount)

	report, runErr := uc.runner.Run(ctx, entity.RunConfig{
		SourceURL:     req.SourceURL,
		DesiredCount:  req.DesiredCount,
		OutputDir:     uc.cfg.OutputDir,
		TrimOvershoot: uc.cfg.TrimOvershoot,
	})
	if runErr != nil {
		if ctx.Err() != nil {
			return uc.requeue(ctx, req, runErr)
		}
		slog.Error("Collection run failed, scheduling retry", "run_id", req.ID, "url", req.SourceURL, "error", runErr)
		return uc.handleRunFailure(ctx, req, runErr)
	}

	return uc.handleRunSuccess(ctx, report)
}

func (uc *runWorkerUseCase) handleRunSuccess(ctx context.Context, report *entity.RunReport) error {
	if err := uc.runRepo.Save(ctx, report); err != nil {
		return fmt.Errorf("failed to save run %s: %w", report.ID, err)
	}

	if err := uc.failedRunRepo.Delete(ctx, report.SourceURL); err != nil {
		// This is not a critical error, just log it.
		slog.Warn("Failed to delete failed run record after successful run", "url", report.SourceURL, "error", err)
	}
	return nil
}

func (uc *runWorkerUseCase) handleRunFailure(ctx context.Context, req *entity.RunRequest, runErr error) error {
	errorType := classifyRunError(runErr)
	metrics.RunFailuresTotal.WithLabelValues(errorType).Inc()

	failed := &entity.FailedRun{
		SourceURL:     req.SourceURL,
		DesiredCount:  req.DesiredCount,
		FailureReason: runErr.Error(),
		LastAttemptAt: uc.now(),
	}
	if err := uc.failedRunRepo.SaveOrUpdate(ctx, failed, uc.backoff()); err != nil {
		return fmt.Errorf("failed to save or update failed run record for %s: %w", req.SourceURL, err)
	}

	if failed.RetryCount > maxRetries {
		slog.Error("Giving up on listing after repeated failures",
			"url", req.SourceURL, "retries", failed.RetryCount, "error_type", errorType)
	} else {
		slog.Info("Retry scheduled", "url", req.SourceURL, "retry", failed.RetryCount, "next_retry_at", failed.NextRetryAt)
	}
	return nil
}

// requeue puts an interrupted run back at the tail of the queue so a
// shutdown does not lose it.
func (uc *runWorkerUseCase) requeue(ctx context.Context, req *entity.RunRequest, runErr error) error {
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), requeueTimeout)
	defer cancel()

	slog.Warn("Run interrupted, returning it to the queue", "run_id", req.ID, "url", req.SourceURL, "error", runErr)
	if err := uc.queueRepo.Push(pushCtx, req); err != nil {
		return fmt.Errorf("failed to requeue interrupted run %s: %w", req.ID, errors.Join(err, runErr))
	}
	return ctx.Err()
}

// RequeueRetryable pushes failed runs that are due back onto the queue and
// returns how many were queued.
func (uc *runWorkerUseCase) RequeueRetryable(ctx context.Context, limit int) (int, error) {
	due, err := uc.failedRunRepo.ClaimRetryable(ctx, maxRetries, limit, retryLease)
	if err != nil {
		return 0, fmt.Errorf("failed to claim retryable runs: %w", err)
	}

	queued := 0
	for _, failed := range due {
		req := &entity.RunRequest{
			ID:           uuid.New(),
			SourceURL:    failed.SourceURL,
			DesiredCount: failed.DesiredCount,
			SubmittedAt:  uc.now().UTC(),
		}
		if err := uc.queueRepo.Push(ctx, req); err != nil {
			return queued, fmt.Errorf("failed to requeue %s: %w", failed.SourceURL, err)
		}
		queued++
		slog.Info("Requeued failed run", "url", failed.SourceURL, "retry", failed.RetryCount)
	}
	return queued, nil
}

// Start processes the queue until ctx is cancelled.
func (uc *runWorkerUseCase) Start(ctx context.Context) {
	slog.Info("Run worker started", "poll_interval", uc.cfg.PollInterval.String())
	ticker := time.NewTicker(uc.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := uc.RequeueRetryable(ctx, retryBatchSize); err != nil && ctx.Err() == nil {
			slog.Error("Failed to requeue retryable runs", "error", err)
		}
		if err := uc.ProcessNext(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Failed to process run", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("Run worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// backoff returns initialBackoff with +/- jitterFactor applied.
func (uc *runWorkerUseCase) backoff() time.Duration {
	factor := 1 + jitterFactor*(2*uc.jitter()-1)
	return time.Duration(float64(initialBackoff) * factor)
}

// classifyRunError maps a run error to the error_type metric label.
func classifyRunError(err error) string {
	switch {
	case errors.Is(err, repository.ErrSessionLost):
		return "session_lost"
	case errors.Is(err, repository.ErrNavigationFailed):
		return "navigation"
	case errors.Is(err, repository.ErrExportFailed):
		return "export"
	case errors.Is(err, ErrInvalidURL), errors.Is(err, ErrInvalidCount):
		return "invalid_request"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "unknown"
	}
}
