package entity

import "time"

const (
	RunStatusPending   = "pending"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusNotFound  = "not_found"
)

type RunStatus struct {
	SourceURL      string
	CurrentStatus  string // "pending", "completed", "failed", "not_found"
	LastRunID      string
	CollectedCount int
	Outcome        Outcome
	FinishedAt     *time.Time
	NextRetryAt    *time.Time
	FailureReason  string
}
