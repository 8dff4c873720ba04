package entity

import (
	"time"

	"github.com/google/uuid"
)

// Outcome describes why a collection loop stopped.
type Outcome string

const (
	OutcomeTargetReached Outcome = "target_reached"
	OutcomeStalled       Outcome = "stalled"
	OutcomeExhausted     Outcome = "exhausted"
)

// RunConfig is everything a single collection run needs to know.
type RunConfig struct {
	SourceURL     string
	DesiredCount  int
	OutputDir     string
	TrimOvershoot bool
}

// RunRequest is the queued form of a collection run.
type RunRequest struct {
	ID           uuid.UUID `json:"id"`
	SourceURL    string    `json:"source_url"`
	DesiredCount int       `json:"desired_count"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// CollectStats counts what happened inside the collection loop.
type CollectStats struct {
	Passes         int
	LoadMoreClicks int
	GrowthTimeouts int
	ExtractErrors  int
}

// Artifacts are the files written by the exporter.
type Artifacts struct {
	SpreadsheetPath string
	ManifestPath    string
}

// RunReport mirrors the `collection_runs` PostgreSQL table, with the
// collected items stored in `collected_products`.
type RunReport struct {
	ID             uuid.UUID
	SourceURL      string
	CollectionName string
	DesiredCount   int
	TargetCount    int
	TotalAvailable int
	Items          []CollectedItem
	Outcome        Outcome
	Stats          CollectStats
	Artifacts      Artifacts
	StartedAt      time.Time
	FinishedAt     time.Time
}
