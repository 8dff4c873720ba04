package collector

import (
	"context"
	"log/slog"

	"github.com/user/listing-collector/internal/repository"
)

// TryLoadMore activates the page's load-more control if one is present and
// enabled. It returns true only if a click was dispatched; growth of the list
// must be awaited separately.
func TryLoadMore(ctx context.Context, page repository.ListingPage) bool {
	available, err := page.LoadMoreAvailable(ctx)
	if err != nil {
		slog.Warn("Load more lookup failed", "error", err)
		return false
	}
	if !available {
		slog.Info("No load more control found")
		return false
	}
	if err := page.ClickLoadMore(ctx); err != nil {
		slog.Warn("Load more click failed", "error", err)
		return false
	}
	slog.Info("Load more control clicked")
	return true
}
