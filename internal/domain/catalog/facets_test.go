package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeFacets_Fixture(t *testing.T) {
	products := seedProducts()
	products[2].InStock = false

	f := ComputeFacets(products)

	assert.Equal(t, []FacetCount{
		{Value: "smartphones", Count: 6},
		{Value: "laptops", Count: 1},
		{Value: "headphones", Count: 1},
	}, f.Categories)
	assert.Equal(t, []FacetCount{
		{Value: "Apple", Count: 4},
		{Value: "Samsung", Count: 1},
		{Value: "Google", Count: 1},
		{Value: "OnePlus", Count: 1},
		{Value: "Xiaomi", Count: 1},
	}, f.Brands)
	assert.Equal(t, PriceRange{Min: 24900, Max: 199900}, f.PriceRange)
	assert.Equal(t, 7, f.InStock)
	assert.Equal(t, 1, f.OutOfStock)
}

func TestComputeFacets_Empty(t *testing.T) {
	f := ComputeFacets(nil)

	assert.Empty(t, f.Categories)
	assert.Empty(t, f.Brands)
	assert.Equal(t, PriceRange{}, f.PriceRange)
}

func TestSearchBrands(t *testing.T) {
	products := seedProducts()

	assert.Equal(t, []string{"Apple", "Google", "OnePlus", "Samsung", "Xiaomi"}, SearchBrands(products, ""))
	assert.Equal(t, []string{"OnePlus", "Samsung"}, SearchBrands(products, "S"))
	assert.Equal(t, []string{"OnePlus"}, SearchBrands(products, " onep "))
	assert.Empty(t, SearchBrands(products, "sony"))
}
