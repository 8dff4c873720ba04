package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/internal/repository"
)

const (
	DefaultMaxAttempts = 10
	DefaultWaitTimeout = 15 * time.Second
	DefaultRetryPause  = 2 * time.Second
)

// Options tunes the collection loop.
type Options struct {
	// MaxAttempts is how many consecutive passes without new items are
	// tolerated before giving up.
	MaxAttempts int
	// WaitTimeout bounds the wait for new items after a load-more click.
	WaitTimeout time.Duration
	// RetryPause is slept after a failed extraction.
	RetryPause time.Duration
}

// DefaultOptions returns the stock loop settings.
func DefaultOptions() Options {
	return Options{
		MaxAttempts: DefaultMaxAttempts,
		WaitTimeout: DefaultWaitTimeout,
		RetryPause:  DefaultRetryPause,
	}
}

// Result is what a collection loop produced and why it stopped.
type Result struct {
	Items   []entity.CollectedItem
	Outcome entity.Outcome
	Stats   entity.CollectStats
}

// Collector drives extraction and load-more cycles on a listing page until a
// target count is reached, the retry budget is spent, or the page stalls.
type Collector struct {
	page  repository.ListingPage
	opts  Options
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCollector creates a collector over page. Zero-valued options fall back
// to the defaults.
func NewCollector(page repository.ListingPage, opts Options) *Collector {
	def := DefaultOptions()
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = def.WaitTimeout
	}
	if opts.RetryPause <= 0 {
		opts.RetryPause = def.RetryPause
	}
	return &Collector{
		page:  page,
		opts:  opts,
		sleep: sleepContext,
	}
}

// run holds the mutable state of one Collect call.
type run struct {
	target    int
	collected []entity.CollectedItem
	seen      map[string]struct{}
	attempts  int
	lastCount int
	outcome   entity.Outcome
	stats     entity.CollectStats
}

func newRun(target int, seed []entity.CollectedItem) *run {
	r := &run{
		target:    target,
		collected: make([]entity.CollectedItem, 0, max(target, len(seed))),
		seen:      make(map[string]struct{}, max(target, len(seed))),
	}
	r.add(seed)
	return r
}

func (r *run) add(items []entity.CollectedItem) {
	r.collected = append(r.collected, items...)
	for _, item := range items {
		r.seen[item.URL] = struct{}{}
	}
}

func (r *run) result() *Result {
	return &Result{
		Items:   r.collected,
		Outcome: r.outcome,
		Stats:   r.stats,
	}
}

// Collect gathers items until target is reached. Seed items are kept and
// count towards the target. A stall or an exhausted retry budget is not an
// error; the Outcome says which happened. An error is returned only when the
// page is gone or ctx is done, together with whatever was collected so far.
func (c *Collector) Collect(ctx context.Context, target int, seed []entity.CollectedItem) (*Result, error) {
	r := newRun(target, seed)
	state := StateExtract
	for state != StateDone {
		next, err := c.step(ctx, state, r)
		if err != nil {
			return r.result(), err
		}
		state = next
	}
	return r.result(), nil
}

// step performs the work of state and returns the state to move to.
func (c *Collector) step(ctx context.Context, state State, r *run) (State, error) {
	switch state {
	case StateExtract:
		return c.extract(ctx, r)
	case StateLoadMore:
		return c.loadMore(ctx, r)
	case StateRetryPause:
		if err := c.sleep(ctx, c.opts.RetryPause); err != nil {
			return StateDone, err
		}
		return StateExtract, nil
	default:
		return StateDone, fmt.Errorf("collector: unexpected state %s", state)
	}
}

func (c *Collector) extract(ctx context.Context, r *run) (State, error) {
	if len(r.collected) >= r.target {
		r.outcome = entity.OutcomeTargetReached
		return StateDone, nil
	}
	if r.attempts >= c.opts.MaxAttempts {
		r.outcome = entity.OutcomeExhausted
		slog.Warn("Giving up after repeated passes without new items",
			"attempts", r.attempts, "collected", len(r.collected), "target", r.target)
		return StateDone, nil
	}

	items, err := c.page.ExtractItems(ctx, r.seen)
	if err != nil {
		if c.isFatal(ctx, err) {
			return StateDone, fmt.Errorf("extracting items: %w", errors.Join(err, ctx.Err()))
		}
		r.attempts++
		r.stats.ExtractErrors++
		slog.Warn("Collection error", "attempt", r.attempts, "max_attempts", c.opts.MaxAttempts, "error", err)
		return StateRetryPause, nil
	}
	r.stats.Passes++

	if len(items) > 0 {
		r.add(items)
		r.attempts = 0
		r.lastCount = len(r.collected)
		slog.Info("Added items", "added", len(items), "total", len(r.collected))
	} else {
		r.attempts++
		slog.Info("No new items found", "attempt", r.attempts, "max_attempts", c.opts.MaxAttempts)
	}

	if len(r.collected) < r.target {
		return StateLoadMore, nil
	}
	return StateExtract, nil
}

func (c *Collector) loadMore(ctx context.Context, r *run) (State, error) {
	if !TryLoadMore(ctx, c.page) {
		if ctx.Err() != nil {
			return StateDone, ctx.Err()
		}
		r.outcome = entity.OutcomeStalled
		slog.Info("No more items can be loaded", "collected", len(r.collected), "target", r.target)
		return StateDone, nil
	}
	r.stats.LoadMoreClicks++

	err := c.page.WaitForItems(ctx, r.lastCount, c.opts.WaitTimeout)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrWaitTimeout):
		r.stats.GrowthTimeouts++
		slog.Info("Timeout waiting for new items to load", "previous", r.lastCount)
	case c.isFatal(ctx, err):
		return StateDone, fmt.Errorf("waiting for items: %w", errors.Join(err, ctx.Err()))
	default:
		slog.Warn("Waiting for new items failed", "error", err)
	}
	return StateExtract, nil
}

func (c *Collector) isFatal(ctx context.Context, err error) bool {
	return errors.Is(err, repository.ErrSessionLost) || ctx.Err() != nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
