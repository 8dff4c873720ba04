package response

import "time"

type SubmitRunResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	RunID   string `json:"run_id"`
}

// RunStatusResponse is a DTO for run status, mirroring entity.RunStatus
type RunStatusResponse struct {
	URL            string     `json:"url"`
	CurrentStatus  string     `json:"current_status"` // "pending", "completed", "failed"
	LastRunID      string     `json:"last_run_id,omitempty"`
	CollectedCount int        `json:"collected_count,omitempty"`
	Outcome        string     `json:"outcome,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	NextRetryAt    *time.Time `json:"next_retry_at,omitempty"`
	FailureReason  string     `json:"failure_reason,omitempty"`
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}
