package consumer

import "context"

// ReviewStore persists append-once reviews. Create must be atomic so a
// concurrent duplicate submission cannot slip past the once-per-pair rule.
type ReviewStore interface {
	Create(ctx context.Context, key ReviewKey, review Review) error
	Find(ctx context.Context, key ReviewKey) (Review, error)
	ListByProduct(ctx context.Context, productID string) ([]Review, error)
}
