package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fairtrace/pkg/platform/sentinel"
)

// RedisReviewStore keeps reviews in one hash per product, with the reviewer
// identity as the hash field. Field-per-reviewer sidesteps composing a
// delimiter-separated key, and HSETNX gives the append-once guarantee
// atomically on the server.
type RedisReviewStore struct {
	client *redis.Client
}

func NewRedisReviewStore(client *redis.Client) *RedisReviewStore {
	return &RedisReviewStore{client: client}
}

func reviewHashKey(productID string) string {
	return "fairtrace:reviews:" + productID
}

func (s *RedisReviewStore) Create(ctx context.Context, key ReviewKey, review Review) error {
	payload, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("review: marshal: %w", err)
	}
	created, err := s.client.HSetNX(ctx, reviewHashKey(key.ProductID), string(key.Reviewer), payload).Result()
	if err != nil {
		return fmt.Errorf("review: create: %w: %v", sentinel.ErrUnavailable, err)
	}
	if !created {
		return sentinel.ErrAlreadyExists
	}
	return nil
}

func (s *RedisReviewStore) Find(ctx context.Context, key ReviewKey) (Review, error) {
	raw, err := s.client.HGet(ctx, reviewHashKey(key.ProductID), string(key.Reviewer)).Result()
	if errors.Is(err, redis.Nil) {
		return Review{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Review{}, fmt.Errorf("review: find: %w: %v", sentinel.ErrUnavailable, err)
	}
	var review Review
	if err := json.Unmarshal([]byte(raw), &review); err != nil {
		return Review{}, fmt.Errorf("review: unmarshal: %w", err)
	}
	return review, nil
}

// ListByProduct returns the product's reviews in no particular order; redis
// hashes do not preserve insertion order.
func (s *RedisReviewStore) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	raw, err := s.client.HGetAll(ctx, reviewHashKey(productID)).Result()
	if err != nil {
		return nil, fmt.Errorf("review: list: %w: %v", sentinel.ErrUnavailable, err)
	}
	reviews := make([]Review, 0, len(raw))
	for _, value := range raw {
		var review Review
		if err := json.Unmarshal([]byte(value), &review); err != nil {
			return nil, fmt.Errorf("review: unmarshal: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

var _ ReviewStore = (*RedisReviewStore)(nil)
