// Package registry provides the keyed record store shared by every compliance
// contract. All four stores are instantiations of the same pattern: records
// are created once, promoted in place by a later admin action, and never
// deleted.
package registry

import (
	"context"
	"sync"

	"fairtrace/pkg/platform/sentinel"
)

// Store is the generic keyed record store. Implementations must make each
// call atomic with respect to the stored state; callers rely on
// check-then-write pairs (Create, Update) being linearizable per key.
type Store[K comparable, V any] interface {
	// Create inserts a record under a fresh key. A second Create for the
	// same key fails with sentinel.ErrAlreadyExists and leaves the original
	// untouched; it is never a silent merge.
	Create(ctx context.Context, key K, value V) error

	// Update rewrites an existing record through apply (overwrite semantics,
	// not a deep merge). Fails with sentinel.ErrNotFound when the key is
	// absent and creates nothing.
	Update(ctx context.Context, key K, apply func(V) V) error

	// Put unconditionally upserts. Only stores whose register operation
	// overwrites (consumer product verification, compliance records) use it.
	Put(ctx context.Context, key K, value V) error

	// Find returns the record or sentinel.ErrNotFound.
	Find(ctx context.Context, key K) (V, error)

	// Len reports how many records the store holds.
	Len(ctx context.Context) (int, error)

	// Keys returns a snapshot of every key, in no particular order.
	Keys(ctx context.Context) ([]K, error)
}

// All snapshots a store into a map for listing reads. Records are never
// deleted, so every key returned by Keys still resolves.
func All[K comparable, V any](ctx context.Context, store Store[K, V]) (map[K]V, error) {
	keys, err := store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[K]V, len(keys))
	for _, key := range keys {
		value, err := store.Find(ctx, key)
		if err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, nil
}

// InMemory keeps records in a mutex-guarded map. It intentionally favors
// clarity over performance; the host ledger's serialized transactions are
// replaced here by per-store locking.
type InMemory[K comparable, V any] struct {
	mu      sync.RWMutex
	records map[K]V
}

func NewInMemory[K comparable, V any]() *InMemory[K, V] {
	return &InMemory[K, V]{records: make(map[K]V)}
}

func (s *InMemory[K, V]) Create(_ context.Context, key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[key]; exists {
		return sentinel.ErrAlreadyExists
	}
	s.records[key] = value
	return nil
}

func (s *InMemory[K, V]) Update(_ context.Context, key K, apply func(V) V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, exists := s.records[key]
	if !exists {
		return sentinel.ErrNotFound
	}
	s.records[key] = apply(current)
	return nil
}

func (s *InMemory[K, V]) Put(_ context.Context, key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = value
	return nil
}

func (s *InMemory[K, V]) Find(_ context.Context, key K) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if value, ok := s.records[key]; ok {
		return value, nil
	}
	var zero V
	return zero, sentinel.ErrNotFound
}

func (s *InMemory[K, V]) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *InMemory[K, V]) Keys(_ context.Context) ([]K, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	return keys, nil
}
