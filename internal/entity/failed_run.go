package entity

import "time"

// FailedRun mirrors the `failed_runs` PostgreSQL table schema.
type FailedRun struct {
	ID            int64
	SourceURL     string
	DesiredCount  int
	FailureReason string
	LastAttemptAt time.Time
	RetryCount    int
	NextRetryAt   time.Time
}
