package chromedp_browser

import (
	"math/rand/v2"
	"sync"
)

// Rotator hands out proxies in turn and user agents at random, one pair per
// browser session.
type Rotator struct {
	proxies    []string
	userAgents []string

	mu         sync.Mutex
	proxyIndex int
	pick       func(n int) int
}

// NewRotator creates a rotator over the given pools. Either may be empty.
func NewRotator(proxies, userAgents []string) *Rotator {
	return &Rotator{
		proxies:    compact(proxies),
		userAgents: compact(userAgents),
		pick:       rand.IntN,
	}
}

// Proxy returns the next proxy URL, or "" when none are configured.
func (r *Rotator) Proxy() string {
	if len(r.proxies) == 0 {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	proxy := r.proxies[r.proxyIndex]
	r.proxyIndex = (r.proxyIndex + 1) % len(r.proxies)
	return proxy
}

// UserAgent returns a random user agent, or "" to keep the browser default.
func (r *Rotator) UserAgent() string {
	if len(r.userAgents) == 0 {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userAgents[r.pick(len(r.userAgents))]
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
