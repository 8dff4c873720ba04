package repository

import (
	"context"
	"time"

	"github.com/user/listing-collector/internal/entity"
)

// ListingPage is a live, dynamically-loading product listing.
type ListingPage interface {
	// ProgressText returns the "You have viewed X of Y" style text, or an
	// error if the element is not present.
	ProgressText(ctx context.Context) (string, error)
	// RenderedCount returns how many item elements are currently rendered.
	RenderedCount(ctx context.Context) (int, error)
	// LoadMoreAvailable reports whether an enabled load-more control exists.
	LoadMoreAvailable(ctx context.Context) (bool, error)
	// ClickLoadMore scrolls the load-more control into view and activates it.
	ClickLoadMore(ctx context.Context) error
	// ExtractItems returns every listed item whose URL is not in exclude.
	ExtractItems(ctx context.Context, exclude map[string]struct{}) ([]entity.CollectedItem, error)
	// WaitForItems blocks until more than previous items are rendered.
	// It returns ErrWaitTimeout when timeout elapses first.
	WaitForItems(ctx context.Context, previous int, timeout time.Duration) error
}

// BrowserSession is a ListingPage owned by a single run.
type BrowserSession interface {
	ListingPage
	Close() error
}

// BrowserRepository opens listing pages in a browser.
type BrowserRepository interface {
	// Open navigates a fresh tab to url. The caller must Close the session.
	Open(ctx context.Context, url string) (BrowserSession, error)
}
