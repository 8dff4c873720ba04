package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/user/listing-collector/internal/delivery/http/request"
	"github.com/user/listing-collector/internal/delivery/http/response"
	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/internal/usecase"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	runManager usecase.RunManager
	checks     map[string]HealthCheck
}

func NewHandler(runManager usecase.RunManager, checks map[string]HealthCheck) *Handler {
	return &Handler{
		runManager: runManager,
		checks:     checks,
	}
}

func (h *Handler) HandleSubmitRun(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	runID, err := h.runManager.Submit(r.Context(), req.URL, req.Count, req.Force)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidURL), errors.Is(err, usecase.ErrInvalidCount):
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, usecase.ErrRunRecentlySubmitted):
			h.writeJSONError(w, err.Error(), http.StatusConflict)
		default:
			slog.Error("Failed to submit run", "url", req.URL, "error", err)
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	resp := response.SubmitRunResponse{
		Status:  "success",
		Message: "Listing submitted for collection",
		RunID:   runID,
	}
	h.writeJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) HandleGetRunStatus(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	status, err := h.runManager.GetStatus(r.Context(), rawURL)
	if err != nil {
		slog.Error("Failed to get run status", "url", rawURL, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if status.CurrentStatus == entity.RunStatusNotFound {
		h.writeJSONError(w, "No run found for the given URL", http.StatusNotFound)
		return
	}

	resp := response.RunStatusResponse{
		URL:            status.SourceURL,
		CurrentStatus:  status.CurrentStatus,
		LastRunID:      status.LastRunID,
		CollectedCount: status.CollectedCount,
		Outcome:        string(status.Outcome),
		FinishedAt:     status.FinishedAt,
		NextRetryAt:    status.NextRetryAt,
		FailureReason:  status.FailureReason,
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleHealthCheck pings every registered dependency and answers 503 if
// any of them is down.
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := response.HealthResponse{Status: "ok"}
	code := http.StatusOK
	if len(h.checks) > 0 {
		resp.Dependencies = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			slog.Error("Health check failed", "dependency", name, "error", err)
			resp.Dependencies[name] = "unhealthy"
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[name] = "healthy"
	}
	h.writeJSON(w, code, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
