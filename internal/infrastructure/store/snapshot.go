package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// SnapshotThreshold defines the number of events after which a snapshot is created
const SnapshotThreshold = 10

// Snapshot represents a point-in-time state of an aggregate
type Snapshot struct {
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int             `json:"version"`    // Event version at snapshot time
	State         json.RawMessage `json:"state"`      // Serialized aggregate state
	CreatedAt     time.Time       `json:"created_at"`
}

// ShouldSnapshot reports whether a snapshot is due at version
func ShouldSnapshot(version int) bool {
	return version > 0 && version%SnapshotThreshold == 0
}

// SnapshotStore persists the latest snapshot per aggregate
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	// GetLatestSnapshot returns nil, nil when no snapshot exists
	GetLatestSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error)
}

// MemorySnapshotStore keeps snapshots in process memory
type MemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{
		snapshots: make(map[string]Snapshot),
	}
}

func (s *MemorySnapshotStore) SaveSnapshot(ctx context.Context, snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// never overwrite a newer snapshot
	if current, ok := s.snapshots[snapshot.AggregateID]; ok && current.Version > snapshot.Version {
		return nil
	}
	s.snapshots[snapshot.AggregateID] = snapshot
	return nil
}

func (s *MemorySnapshotStore) GetLatestSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[aggregateID]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}
