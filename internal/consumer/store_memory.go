package consumer

import (
	"context"
	"sync"

	"fairtrace/pkg/domain"
	"fairtrace/pkg/platform/sentinel"
)

// InMemoryReviewStore groups reviews by product so listings do not scan the
// whole keyspace. Within a product, listing preserves submission order.
type InMemoryReviewStore struct {
	mu      sync.RWMutex
	byPair  map[ReviewKey]Review
	ordered map[string][]domain.Identity
}

func NewInMemoryReviewStore() *InMemoryReviewStore {
	return &InMemoryReviewStore{
		byPair:  make(map[ReviewKey]Review),
		ordered: make(map[string][]domain.Identity),
	}
}

func (s *InMemoryReviewStore) Create(_ context.Context, key ReviewKey, review Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byPair[key]; exists {
		return sentinel.ErrAlreadyExists
	}
	s.byPair[key] = review
	s.ordered[key.ProductID] = append(s.ordered[key.ProductID], key.Reviewer)
	return nil
}

func (s *InMemoryReviewStore) Find(_ context.Context, key ReviewKey) (Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if review, ok := s.byPair[key]; ok {
		return review, nil
	}
	return Review{}, sentinel.ErrNotFound
}

func (s *InMemoryReviewStore) ListByProduct(_ context.Context, productID string) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reviewers := s.ordered[productID]
	reviews := make([]Review, 0, len(reviewers))
	for _, reviewer := range reviewers {
		reviews = append(reviews, s.byPair[ReviewKey{ProductID: productID, Reviewer: reviewer}])
	}
	return reviews, nil
}
