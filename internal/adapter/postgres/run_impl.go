package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/internal/repository"
)

// RunRepoImpl provides a concrete implementation for the RunRepository interface using PostgreSQL.
type RunRepoImpl struct {
	db *pgxpool.Pool
}

// NewRunRepo creates a new instance of RunRepoImpl.
func NewRunRepo(db *pgxpool.Pool) *RunRepoImpl {
	return &RunRepoImpl{db: db}
}

// Save stores the run row and all of its products in one transaction.
func (r *RunRepoImpl) Save(ctx context.Context, report *entity.RunReport) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO collection_runs (
			id, source_url, collection_name, desired_count, target_count, total_available,
			collected_count, outcome, passes, load_more_clicks, growth_timeouts, extract_errors,
			spreadsheet_path, manifest_path, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, query,
		report.ID,
		report.SourceURL,
		report.CollectionName,
		report.DesiredCount,
		report.TargetCount,
		report.TotalAvailable,
		len(report.Items),
		string(report.Outcome),
		report.Stats.Passes,
		report.Stats.LoadMoreClicks,
		report.Stats.GrowthTimeouts,
		report.Stats.ExtractErrors,
		report.Artifacts.SpreadsheetPath,
		report.Artifacts.ManifestPath,
		report.StartedAt,
		report.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	batch := &pgx.Batch{}
	for i, item := range report.Items {
		batch.Queue(
			`INSERT INTO collected_products (run_id, position, url, has_variants) VALUES ($1, $2, $3, $4);`,
			report.ID, i+1, item.URL, item.HasVariants,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert products: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// FindLatestBySourceURL retrieves the most recently finished run for a
// listing URL together with its products.
func (r *RunRepoImpl) FindLatestBySourceURL(ctx context.Context, sourceURL string) (*entity.RunReport, error) {
	query := `
		SELECT id, source_url, collection_name, desired_count, target_count, total_available,
			outcome, passes, load_more_clicks, growth_timeouts, extract_errors,
			spreadsheet_path, manifest_path, started_at, finished_at
		FROM collection_runs
		WHERE source_url = $1
		ORDER BY finished_at DESC
		LIMIT 1;
	`
	var (
		report  entity.RunReport
		outcome string
	)
	err := r.db.QueryRow(ctx, query, sourceURL).Scan(
		&report.ID,
		&report.SourceURL,
		&report.CollectionName,
		&report.DesiredCount,
		&report.TargetCount,
		&report.TotalAvailable,
		&outcome,
		&report.Stats.Passes,
		&report.Stats.LoadMoreClicks,
		&report.Stats.GrowthTimeouts,
		&report.Stats.ExtractErrors,
		&report.Artifacts.SpreadsheetPath,
		&report.Artifacts.ManifestPath,
		&report.StartedAt,
		&report.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	report.Outcome = entity.Outcome(outcome)

	rows, err := r.db.Query(ctx,
		`SELECT url, has_variants FROM collected_products WHERE run_id = $1 ORDER BY position;`,
		report.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	report.Items, err = pgx.CollectRows(rows, pgx.RowToStructByPos[entity.CollectedItem])
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return &report, nil
}
