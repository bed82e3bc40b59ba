package store

import (
	"context"

	"github.com/example/catalog-browser/internal/domain/catalog"
)

// ProductSource supplies the catalog a session loads
type ProductSource interface {
	LoadProducts(ctx context.Context) ([]catalog.Product, error)
}
