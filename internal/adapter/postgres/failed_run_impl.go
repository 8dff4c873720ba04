package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/internal/repository"
)

// FailedRunRepoImpl provides a concrete implementation for the FailedRunRepository interface using PostgreSQL.
type FailedRunRepoImpl struct {
	db *pgxpool.Pool
}

// NewFailedRunRepo creates a new instance of FailedRunRepoImpl.
func NewFailedRunRepo(db *pgxpool.Pool) *FailedRunRepoImpl {
	return &FailedRunRepoImpl{db: db}
}

// SaveOrUpdate creates or updates the failure record for a listing URL.
// On conflict retry_count is incremented and next_retry_at is pushed out by
// backoff doubled once per earlier retry. failed.RetryCount and
// failed.NextRetryAt are updated from the stored row.
func (r *FailedRunRepoImpl) SaveOrUpdate(ctx context.Context, failed *entity.FailedRun, backoff time.Duration) error {
	query := `
		INSERT INTO failed_runs (source_url, desired_count, failure_reason, last_attempt_at, retry_count, next_retry_at)
		VALUES ($1, $2, $3, $4::timestamptz, 1, $4::timestamptz + $5::float8 * INTERVAL '1 millisecond')
		ON CONFLICT (source_url) DO UPDATE SET
			desired_count = EXCLUDED.desired_count,
			failure_reason = EXCLUDED.failure_reason,
			last_attempt_at = EXCLUDED.last_attempt_at,
			retry_count = failed_runs.retry_count + 1,
			next_retry_at = EXCLUDED.last_attempt_at
				+ $5::float8 * power(2, failed_runs.retry_count) * INTERVAL '1 millisecond'
		RETURNING id, retry_count, next_retry_at;
	`
	return r.db.QueryRow(ctx, query,
		failed.SourceURL,
		failed.DesiredCount,
		failed.FailureReason,
		failed.LastAttemptAt,
		backoff.Milliseconds(),
	).Scan(&failed.ID, &failed.RetryCount, &failed.NextRetryAt)
}

// FindBySourceURL returns the failure record for a listing URL.
func (r *FailedRunRepoImpl) FindBySourceURL(ctx context.Context, sourceURL string) (*entity.FailedRun, error) {
	query := `
		SELECT id, source_url, desired_count, failure_reason, last_attempt_at, retry_count, next_retry_at
		FROM failed_runs
		WHERE source_url = $1;
	`
	var fr entity.FailedRun
	err := r.db.QueryRow(ctx, query, sourceURL).Scan(
		&fr.ID,
		&fr.SourceURL,
		&fr.DesiredCount,
		&fr.FailureReason,
		&fr.LastAttemptAt,
		&fr.RetryCount,
		&fr.NextRetryAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

// ClaimRetryable retrieves a batch of runs that are due for a retry and have
// not used up their retries, and leases them so concurrent workers skip them.
func (r *FailedRunRepoImpl) ClaimRetryable(ctx context.Context, maxRetries, limit int, lease time.Duration) ([]*entity.FailedRun, error) {
	query := `
		UPDATE failed_runs
		SET next_retry_at = NOW() + $3::float8 * INTERVAL '1 millisecond'
		WHERE id IN (
			SELECT id FROM failed_runs
			WHERE next_retry_at <= NOW() AND retry_count <= $1
			ORDER BY next_retry_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, source_url, desired_count, failure_reason, last_attempt_at, retry_count, next_retry_at;
	`
	rows, err := r.db.Query(ctx, query, maxRetries, limit, lease.Milliseconds())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failed []*entity.FailedRun
	for rows.Next() {
		var fr entity.FailedRun
		if err := rows.Scan(
			&fr.ID,
			&fr.SourceURL,
			&fr.DesiredCount,
			&fr.FailureReason,
			&fr.LastAttemptAt,
			&fr.RetryCount,
			&fr.NextRetryAt,
		); err != nil {
			return nil, err
		}
		failed = append(failed, &fr)
	}

	return failed, rows.Err()
}

// Delete removes a failed run record, typically after a successful run.
func (r *FailedRunRepoImpl) Delete(ctx context.Context, sourceURL string) error {
	query := `DELETE FROM failed_runs WHERE source_url = $1;`
	_, err := r.db.Exec(ctx, query, sourceURL)
	return err
}
