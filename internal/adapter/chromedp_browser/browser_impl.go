package chromedp_browser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/inspector"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/user/listing-collector/internal/repository"
	"github.com/user/listing-collector/pkg/logger"
)

// Options configure the browser and page timeouts.
type Options struct {
	Headless        bool
	UserAgents      []string
	Proxies         []string
	PageLoadTimeout time.Duration
	ListWaitTimeout time.Duration
	Selectors       Selectors
}

type ChromedpBrowser struct {
	opts    Options
	rotator *Rotator
}

// NewChromedpBrowser creates a browser launcher using chromedp. Each Open
// starts a fresh browser process with the next proxy and user agent.
func NewChromedpBrowser(opts Options) *ChromedpBrowser {
	if opts.PageLoadTimeout <= 0 {
		opts.PageLoadTimeout = 90 * time.Second
	}
	if opts.ListWaitTimeout <= 0 {
		opts.ListWaitTimeout = 15 * time.Second
	}
	if opts.Selectors == (Selectors{}) {
		opts.Selectors = DefaultSelectors()
	}

	return &ChromedpBrowser{
		opts:    opts,
		rotator: NewRotator(opts.Proxies, opts.UserAgents),
	}
}

func (b *ChromedpBrowser) allocatorOptions(proxy, userAgent string) []chromedp.ExecAllocatorOption {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
	)
	if proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(proxy))
	}
	if userAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(userAgent))
	}
	return allocOpts
}

// Open launches a browser, navigates to rawURL and returns the live page once
// the listing container is in the DOM.
func (b *ChromedpBrowser) Open(ctx context.Context, rawURL string) (repository.BrowserSession, error) {
	proxy := b.rotator.Proxy()
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), b.allocatorOptions(proxy, b.rotator.UserAgent())...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Debugf))
	lostCtx, markLost := context.WithCancel(context.Background())
	s := &Session{
		ctx:  tabCtx,
		lost: lostCtx,
		cancel: func() {
			cancelTab()
			cancelAlloc()
			markLost()
		},
		sel:      b.opts.Selectors,
		listWait: b.opts.ListWaitTimeout,
	}
	chromedp.ListenTarget(tabCtx, func(ev any) {
		switch ev.(type) {
		case *inspector.EventTargetCrashed, *inspector.EventDetached:
			markLost()
		}
	})

	// The first Run starts the browser and binds its lifetime to tabCtx, so
	// it must not carry a deadline.
	stop := context.AfterFunc(ctx, s.cancel)
	err := chromedp.Run(tabCtx)
	stop()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: starting browser: %v", repository.ErrNavigationFailed, err)
	}

	slog.Info("Navigating to listing", "url", rawURL, "proxied", proxy != "")
	startTime := time.Now()

	var location string
	err = s.run(ctx, b.opts.PageLoadTimeout,
		navigate(rawURL),
		chromedp.WaitReady(s.sel.List, chromedp.ByQuery),
		chromedp.Location(&location),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrNavigationFailed, rawURL, err)
	}

	base, err := url.Parse(location)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: bad location %q: %v", repository.ErrNavigationFailed, location, err)
	}
	s.base = base

	slog.Info("Listing loaded", "url", location, "duration_ms", time.Since(startTime).Milliseconds())
	return s, nil
}

// navigate starts loading rawURL without waiting for the load event.
func navigate(rawURL string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		_, _, errorText, _, err := page.Navigate(rawURL).Do(ctx)
		if err != nil {
			return err
		}
		if errorText != "" {
			return fmt.Errorf("page load error %s", errorText)
		}
		return nil
	}
}
