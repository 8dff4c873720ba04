package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTryLoadMore(t *testing.T) {
	t.Run("clicks an available control", func(t *testing.T) {
		page := &fakePage{loadMore: always(true)}
		assert.True(t, TryLoadMore(context.Background(), page))
		assert.Equal(t, 1, page.clicks)
	})

	t.Run("absent control", func(t *testing.T) {
		page := &fakePage{loadMore: always(false)}
		assert.False(t, TryLoadMore(context.Background(), page))
		assert.Equal(t, 0, page.clicks)
	})

	t.Run("lookup failure", func(t *testing.T) {
		page := &fakePage{availableErr: errors.New("cdp: closed")}
		assert.False(t, TryLoadMore(context.Background(), page))
	})

	t.Run("click failure", func(t *testing.T) {
		page := &fakePage{loadMore: always(true), clickErr: errors.New("not visible")}
		assert.False(t, TryLoadMore(context.Background(), page))
		assert.Equal(t, 0, page.clicks)
	})
}
