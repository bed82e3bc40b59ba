package fixture

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/example/catalog-browser/internal/domain/catalog"
)

//go:embed products.yaml
var productsYAML []byte

type document struct {
	Products []catalog.Product `yaml:"products"`
}

// Parse decodes a product document.
func Parse(data []byte) ([]catalog.Product, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse product fixture: %w", err)
	}
	return doc.Products, nil
}

// Products returns the compiled-in seed catalog.
func Products() []catalog.Product {
	products, err := Parse(productsYAML)
	if err != nil {
		panic(err)
	}
	return products
}

// Source serves the seed catalog as a product source.
type Source struct{}

func NewSource() *Source {
	return &Source{}
}

func (s *Source) LoadProducts(ctx context.Context) ([]catalog.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Products(), nil
}
