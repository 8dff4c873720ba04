package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/listing-collector/pkg/utils"
)

const submittedKeyPrefix = "collector:submitted:"

// SubmissionRepoImpl provides a concrete implementation for the SubmissionRepository interface using Redis.
type SubmissionRepoImpl struct {
	client *redis.Client
}

// NewSubmissionRepo creates a new instance of SubmissionRepoImpl.
func NewSubmissionRepo(client *redis.Client) *SubmissionRepoImpl {
	return &SubmissionRepoImpl{client: client}
}

func submittedKey(sourceURL string) string {
	return submittedKeyPrefix + utils.HashURL(sourceURL)
}

// MarkSubmitted sets a marker for sourceURL that expires after expiry.
func (r *SubmissionRepoImpl) MarkSubmitted(ctx context.Context, sourceURL string, expiry time.Duration) error {
	return r.client.SetEx(ctx, submittedKey(sourceURL), "1", expiry).Err()
}

// IsSubmitted reports whether the marker for sourceURL is still set.
func (r *SubmissionRepoImpl) IsSubmitted(ctx context.Context, sourceURL string) (bool, error) {
	n, err := r.client.Exists(ctx, submittedKey(sourceURL)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RemoveSubmitted clears the marker, used for forced submissions.
func (r *SubmissionRepoImpl) RemoveSubmitted(ctx context.Context, sourceURL string) error {
	return r.client.Del(ctx, submittedKey(sourceURL)).Err()
}
