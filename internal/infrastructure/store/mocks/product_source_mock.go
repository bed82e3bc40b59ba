package mocks

import (
	"context"
	"sync"

	"github.com/example/catalog-browser/internal/domain/catalog"
)

// MockProductSource is a mock implementation of ProductSource for testing
type MockProductSource struct {
	mu       sync.Mutex
	Products []catalog.Product
	Err      error
	Calls    int
}

func NewMockProductSource(products []catalog.Product) *MockProductSource {
	return &MockProductSource{Products: products}
}

// LoadProducts returns the configured products or error
func (m *MockProductSource) LoadProducts(ctx context.Context) ([]catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]catalog.Product(nil), m.Products...), nil
}
