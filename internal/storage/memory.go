// Package storage provides cart snapshot persistence implementations.
package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/restaurant-cart/internal/cart"
)

var _ cart.SnapshotStore = (*MemorySnapshotStore)(nil)

// MemorySnapshotStore is an in-memory snapshot store. Safe for concurrent access.
// Snapshots do not survive a restart.
type MemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemorySnapshotStore creates an empty in-memory snapshot store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snapshots: make(map[string][]byte)}
}

// Write stores a copy of data under key. Overwrites if it already exists.
func (s *MemorySnapshotStore) Write(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("saving cart snapshot")
	s.snapshots[key] = slices.Clone(data)
	return nil
}

// Read returns a copy of the snapshot under key.
func (s *MemorySnapshotStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.snapshots[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(data), true, nil
}

// Ping always succeeds.
func (s *MemorySnapshotStore) Ping(ctx context.Context) error {
	return nil
}
