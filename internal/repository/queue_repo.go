package repository

import (
	"context"
	"errors"

	"github.com/user/listing-collector/internal/entity"
)

// ErrQueueEmpty is returned by Pop when nothing is queued.
var ErrQueueEmpty = errors.New("run queue is empty")

// QueueRepository defines the interface for a FIFO queue of collection runs.
type QueueRepository interface {
	// Push adds a run request to the end of the queue.
	Push(ctx context.Context, req *entity.RunRequest) error
	// Pop removes and returns a run request from the front of the queue.
	Pop(ctx context.Context) (*entity.RunRequest, error)
	// Size returns the current number of items in the queue.
	Size(ctx context.Context) (int64, error)
}
