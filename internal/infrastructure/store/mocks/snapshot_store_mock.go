package mocks

import (
	"context"
	"sync"

	"github.com/example/catalog-browser/internal/infrastructure/store"
)

// MockSnapshotStore is a mock implementation of SnapshotStore for testing
type MockSnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]store.Snapshot

	SaveCalls []store.Snapshot
	SaveErr   error
	GetErr    error
}

func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{
		snapshots: make(map[string]store.Snapshot),
	}
}

func (m *MockSnapshotStore) SaveSnapshot(ctx context.Context, snapshot store.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls = append(m.SaveCalls, snapshot)
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.snapshots[snapshot.AggregateID] = snapshot
	return nil
}

func (m *MockSnapshotStore) GetLatestSnapshot(ctx context.Context, aggregateID string) (*store.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	snapshot, ok := m.snapshots[aggregateID]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}

// SaveCount returns the number of SaveSnapshot calls so far
func (m *MockSnapshotStore) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.SaveCalls)
}
