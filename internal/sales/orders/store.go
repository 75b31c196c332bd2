package orders

import (
	"context"
	"fmt"
	"sync"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/shared"
)

// Store persists order snapshots keyed by order ID.
// Load returns an error wrapping shared.ErrNotFound for unknown orders.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, orderID string) (Snapshot, error)
	Delete(ctx context.Context, orderID string) error
}

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]Snapshot)}
}

func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.OrderID] = snap
	return nil
}

func (s *MemoryStore) Load(_ context.Context, orderID string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[orderID]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: order %s has no saved snapshot", shared.ErrNotFound, orderID)
	}
	return snap, nil
}

func (s *MemoryStore) Delete(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, orderID)
	return nil
}
