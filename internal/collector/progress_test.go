package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/listing-collector/internal/entity"
)

func TestParseProgress(t *testing.T) {
	tests := []struct {
		name string
		text string
		want entity.ProgressState
		ok   bool
	}{
		{name: "standard", text: "You have viewed 40 of 500", want: entity.ProgressState{Current: 40, Total: 500}, ok: true},
		{name: "surrounding whitespace", text: "\n  You have viewed 96 of 96 products  ", want: entity.ProgressState{Current: 96, Total: 96}, ok: true},
		{name: "thousands separator", text: "You have viewed 1,000 of 2,345", want: entity.ProgressState{Current: 1000, Total: 2345}, ok: true},
		{name: "different case", text: "VIEWED 5 OF 9", want: entity.ProgressState{Current: 5, Total: 9}, ok: true},
		{name: "no numbers", text: "You have viewed some of them", ok: false},
		{name: "empty", text: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseProgress(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInspect_UsesProgressText(t *testing.T) {
	page := &fakePage{progressText: "You have viewed 40 of 500", rendered: 40}

	got := Inspect(context.Background(), page)

	assert.Equal(t, entity.ProgressState{Current: 40, Total: 500}, got)
}

func TestInspect_FallsBackToRenderedCount(t *testing.T) {
	page := &fakePage{progressText: "Showing lots of products", rendered: 24}

	got := Inspect(context.Background(), page)

	assert.Equal(t, entity.ProgressState{Current: 24, Total: 72, Estimated: true}, got)
}

func TestInspect_MissingProgressElement(t *testing.T) {
	page := &fakePage{progressErr: errors.New("not found"), rendered: 10}

	got := Inspect(context.Background(), page)

	assert.Equal(t, entity.ProgressState{Current: 10, Total: 30, Estimated: true}, got)
}

func TestInspect_NothingRendered(t *testing.T) {
	page := &fakePage{progressErr: errors.New("not found")}

	assert.Equal(t, entity.ProgressState{}, Inspect(context.Background(), page))
}

func TestInspect_CountFailureIsZero(t *testing.T) {
	page := &fakePage{progressErr: errors.New("not found"), renderedErr: errors.New("list missing")}

	assert.Equal(t, entity.ProgressState{}, Inspect(context.Background(), page))
}
