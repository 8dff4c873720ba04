package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/user/listing-collector/internal/collector"
	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/internal/repository"
	"github.com/user/listing-collector/pkg/metrics"
	"github.com/user/listing-collector/pkg/utils"
)

// Runner executes one collection run end to end.
type Runner interface {
	Run(ctx context.Context, cfg entity.RunConfig) (*entity.RunReport, error)
}

// CollectionRunner opens a listing, collects product URLs from it and
// exports them.
type CollectionRunner struct {
	browser  repository.BrowserRepository
	exporter repository.ExporterRepository
	opts     collector.Options
	now      func() time.Time
}

// NewCollectionRunner creates a new instance of CollectionRunner.
func NewCollectionRunner(
	browser repository.BrowserRepository,
	exporter repository.ExporterRepository,
	opts collector.Options,
) *CollectionRunner {
	return &CollectionRunner{
		browser:  browser,
		exporter: exporter,
		opts:     opts,
		now:      time.Now,
	}
}

// Run navigates to cfg.SourceURL, collects up to min(DesiredCount, total
// available) unique items and writes the artifacts to cfg.OutputDir. The
// browser session is closed before Run returns.
func (r *CollectionRunner) Run(ctx context.Context, cfg entity.RunConfig) (*entity.RunReport, error) {
	if cfg.DesiredCount <= 0 {
		return nil, ErrInvalidCount
	}
	if err := validateSourceURL(cfg.SourceURL); err != nil {
		return nil, err
	}
	collectionName, err := utils.CollectionPath(cfg.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	report := &entity.RunReport{
		ID:             uuid.New(),
		SourceURL:      cfg.SourceURL,
		CollectionName: collectionName,
		DesiredCount:   cfg.DesiredCount,
		StartedAt:      r.now(),
	}
	domain := utils.Domain(cfg.SourceURL)
	defer func() {
		metrics.RunDuration.WithLabelValues(domain).Observe(time.Since(report.StartedAt).Seconds())
	}()

	session, err := r.browser.Open(ctx, cfg.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open listing: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("Failed to close browser session", "url", cfg.SourceURL, "error", err)
		}
	}()

	progress := collector.Inspect(ctx, session)
	report.TotalAvailable = progress.Total
	report.TargetCount = min(cfg.DesiredCount, progress.Total)
	slog.Info("Targeting product URLs",
		"run_id", report.ID,
		"target", report.TargetCount,
		"total", progress.Total,
		"estimated", progress.Estimated,
	)

	result, err := collector.NewCollector(session, r.opts).Collect(ctx, report.TargetCount, nil)
	if err != nil {
		return nil, fmt.Errorf("collection stopped after %d items: %w", len(result.Items), err)
	}

	items := collector.Dedupe(result.Items)
	if cfg.TrimOvershoot {
		items = collector.Trim(items, report.TargetCount)
	}
	report.Items = items
	report.Outcome = result.Outcome
	report.Stats = result.Stats
	metrics.LoadMoreClicksTotal.Add(float64(result.Stats.LoadMoreClicks))

	artifacts, err := r.exporter.Export(ctx, report, cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to export run %s: %w", report.ID, err)
	}
	report.Artifacts = artifacts
	report.FinishedAt = r.now()

	metrics.RunsTotal.WithLabelValues(string(report.Outcome)).Inc()
	metrics.ProductsCollected.WithLabelValues(domain).Add(float64(len(report.Items)))

	slog.Info("Collection run finished",
		"run_id", report.ID,
		"collected", len(report.Items),
		"target", report.TargetCount,
		"outcome", report.Outcome,
		"duration_ms", report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	)
	return report, nil
}
