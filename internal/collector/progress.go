package collector

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/internal/repository"
)

// estimateMultiplier scales the rendered count into a guessed total when the
// page does not state one.
const estimateMultiplier = 3

var progressPattern = regexp.MustCompile(`(?i)viewed\s+(\d[\d,]*)\s+of\s+(\d[\d,]*)`)

// ParseProgress extracts current and total from text such as
// "You have viewed 40 of 500".
func ParseProgress(text string) (entity.ProgressState, bool) {
	m := progressPattern.FindStringSubmatch(text)
	if m == nil {
		return entity.ProgressState{}, false
	}
	current, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return entity.ProgressState{}, false
	}
	total, err := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
	if err != nil {
		return entity.ProgressState{}, false
	}
	return entity.ProgressState{Current: current, Total: total}, true
}

// Inspect reports how many items are rendered and how many the listing has.
// It never fails: unreadable progress text falls back to counting rendered
// items, and a page with nothing rendered yields a zero state.
func Inspect(ctx context.Context, page repository.ListingPage) entity.ProgressState {
	text, err := page.ProgressText(ctx)
	if err == nil {
		if state, ok := ParseProgress(text); ok {
			return state
		}
		slog.Debug("Progress text did not match, using fallback", "text", text)
	} else {
		slog.Debug("Could not read progress text, using fallback", "error", err)
	}

	rendered, err := page.RenderedCount(ctx)
	if err != nil {
		slog.Warn("Failed to count rendered items", "error", err)
		return entity.ProgressState{}
	}
	if rendered == 0 {
		return entity.ProgressState{}
	}
	return entity.ProgressState{
		Current:   rendered,
		Total:     rendered * estimateMultiplier,
		Estimated: true,
	}
}
