package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/user/listing-collector/internal/entity"
)

// fakePage is a scripted repository.ListingPage.
type fakePage struct {
	progressText string
	progressErr  error
	rendered     int
	renderedErr  error

	// extract is called with the zero-based call number.
	extract func(call int) ([]entity.CollectedItem, error)
	// loadMore reports availability for the zero-based call number.
	loadMore     func(call int) bool
	availableErr error
	clickErr     error
	waitErr      error

	extractCalls   int
	availableCalls int
	clicks         int
	waitedFor      []int
}

func (p *fakePage) ProgressText(ctx context.Context) (string, error) {
	return p.progressText, p.progressErr
}

func (p *fakePage) RenderedCount(ctx context.Context) (int, error) {
	return p.rendered, p.renderedErr
}

func (p *fakePage) LoadMoreAvailable(ctx context.Context) (bool, error) {
	call := p.availableCalls
	p.availableCalls++
	if p.availableErr != nil {
		return false, p.availableErr
	}
	if p.loadMore == nil {
		return false, nil
	}
	return p.loadMore(call), nil
}

func (p *fakePage) ClickLoadMore(ctx context.Context) error {
	if p.clickErr != nil {
		return p.clickErr
	}
	p.clicks++
	return nil
}

func (p *fakePage) ExtractItems(ctx context.Context, exclude map[string]struct{}) ([]entity.CollectedItem, error) {
	call := p.extractCalls
	p.extractCalls++
	if p.extract == nil {
		return nil, nil
	}
	items, err := p.extract(call)
	if err != nil {
		return nil, err
	}
	var out []entity.CollectedItem
	for _, item := range items {
		if _, ok := exclude[item.URL]; ok {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (p *fakePage) WaitForItems(ctx context.Context, previous int, timeout time.Duration) error {
	p.waitedFor = append(p.waitedFor, previous)
	return p.waitErr
}

// productRange returns n items numbered from start.
func productRange(start, n int) []entity.CollectedItem {
	items := make([]entity.CollectedItem, 0, n)
	for i := start; i < start+n; i++ {
		items = append(items, entity.CollectedItem{
			URL: fmt.Sprintf("https://shop.example/p/%d?sku=%d", i, 1000+i),
		})
	}
	return items
}

func always(v bool) func(int) bool {
	return func(int) bool { return v }
}
