package chromedp_browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/internal/repository"
)

const (
	actionTimeout   = 10 * time.Second
	pollingInterval = 250 * time.Millisecond
)

var (
	errProgressMissing = errors.New("progress text not found")
	errNoLoadMore      = errors.New("load more control not found")
)

// Session is one browser tab showing a listing page.
type Session struct {
	ctx context.Context
	// lost is done once the tab crashed or detached.
	lost     context.Context
	cancel   context.CancelFunc
	base     *url.URL
	sel      Selectors
	listWait time.Duration

	closeOnce sync.Once
	closeErr  error
}

// run executes actions in the tab, bounded by timeout and by ctx. Failures
// on a browser that is gone are reported as repository.ErrSessionLost.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if s.dead() {
		return repository.ErrSessionLost
	}
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stopCaller := context.AfterFunc(ctx, cancel)
	defer stopCaller()
	stopLost := context.AfterFunc(s.lost, cancel)
	defer stopLost()

	err := chromedp.Run(runCtx, actions...)
	if err == nil {
		return nil
	}
	if s.dead() {
		return fmt.Errorf("%w: %v", repository.ErrSessionLost, err)
	}
	if ctx.Err() != nil {
		return errors.Join(ctx.Err(), err)
	}
	return err
}

// dead reports whether the tab or its browser can no longer run actions.
func (s *Session) dead() bool {
	if s.ctx.Err() != nil || s.lost.Err() != nil {
		return true
	}
	c := chromedp.FromContext(s.ctx)
	if c == nil || c.Browser == nil {
		return true
	}
	select {
	case <-c.Browser.LostConnection:
		return true
	default:
		return false
	}
}

func (s *Session) ProgressText(ctx context.Context) (string, error) {
	if err := s.run(ctx, s.listWait, chromedp.WaitReady(s.sel.List, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("waiting for listing: %w", err)
	}

	var text string
	expr := fmt.Sprintf(`(() => { const el = document.querySelector(%s); return el ? el.textContent.trim() : ""; })()`, jsString(s.sel.Progress))
	if err := s.run(ctx, actionTimeout, chromedp.Evaluate(expr, &text)); err != nil {
		return "", err
	}
	if text == "" {
		return "", errProgressMissing
	}
	return text, nil
}

func (s *Session) RenderedCount(ctx context.Context) (int, error) {
	var count int
	expr := fmt.Sprintf(`document.querySelectorAll(%s).length`, jsString(s.sel.items()))
	if err := s.run(ctx, actionTimeout, chromedp.Evaluate(expr, &count)); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Session) LoadMoreAvailable(ctx context.Context) (bool, error) {
	node, err := s.loadMoreNode(ctx)
	if err != nil {
		return false, err
	}
	return node != nil, nil
}

func (s *Session) ClickLoadMore(ctx context.Context) error {
	node, err := s.loadMoreNode(ctx)
	if err != nil {
		return err
	}
	if node == nil {
		return errNoLoadMore
	}
	return s.run(ctx, actionTimeout,
		chromedp.ScrollIntoView([]cdp.NodeID{node.NodeID}, chromedp.ByNodeID),
		chromedp.MouseClickNode(node),
	)
}

func (s *Session) loadMoreNode(ctx context.Context) (*cdp.Node, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, actionTimeout,
		chromedp.Nodes(s.sel.LoadMore, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}

func (s *Session) ExtractItems(ctx context.Context, exclude map[string]struct{}) ([]entity.CollectedItem, error) {
	var html string
	err := s.run(ctx, s.listWait, chromedp.OuterHTML(s.sel.List, &html, chromedp.ByQuery))
	if err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}
	return ParseItems(html, s.base, s.sel, exclude)
}

func (s *Session) WaitForItems(ctx context.Context, previous int, timeout time.Duration) error {
	var grown bool
	expr := fmt.Sprintf(`document.querySelectorAll(%s).length > %d`, jsString(s.sel.items()), previous)
	err := s.run(ctx, timeout+actionTimeout, chromedp.Poll(expr, &grown,
		chromedp.WithPollingTimeout(timeout),
		chromedp.WithPollingInterval(pollingInterval),
	))
	if errors.Is(err, chromedp.ErrPollingTimeout) {
		return repository.ErrWaitTimeout
	}
	return err
}

// Close shuts the browser down. Later calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		err := chromedp.Cancel(s.ctx)
		s.cancel()
		if !errors.Is(err, context.Canceled) {
			s.closeErr = err
		}
	})
	return s.closeErr
}

// jsString quotes v as a JavaScript string literal.
func jsString(v string) string {
	b, _ := json.Marshal(v)
	return string(b)
}
