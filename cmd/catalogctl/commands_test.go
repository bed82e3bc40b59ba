package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/catalog-browser/internal/domain/catalog"
	"github.com/example/catalog-browser/internal/fixture"
	"github.com/example/catalog-browser/internal/query"
)

func defaultOptions() browseOptions {
	return browseOptions{
		maxPrice: catalog.MaxPriceCeiling,
		sortBy:   string(catalog.SortRecommended),
	}
}

func TestRunBrowse_JSON(t *testing.T) {
	opts := defaultOptions()
	opts.categories = []string{"smartphones"}
	opts.sortBy = string(catalog.SortPriceLowHigh)
	opts.compare = []string{"1", "4"}
	opts.asJSON = true

	var out bytes.Buffer
	require.NoError(t, runBrowse(&out, fixture.Products(), opts))

	var view query.CatalogView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	var ids []string
	for _, p := range view.Products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"4", "6", "5", "3", "2", "1"}, ids)
	assert.Equal(t, 2, view.Comparison.Count)
	assert.True(t, view.Comparison.Visible)
}

func TestRunBrowse_Table(t *testing.T) {
	opts := defaultOptions()
	opts.brands = []string{"Apple"}
	opts.compare = []string{"7"}

	var out bytes.Buffer
	require.NoError(t, runBrowse(&out, fixture.Products(), opts))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "ID"))
	assert.Contains(t, text, "MacBook")
	assert.Contains(t, text, "4 of 8 products (sort: recommended)")
	assert.NotContains(t, text, "Comparison:")
}

func TestRunBrowse_UnknownCompareID(t *testing.T) {
	opts := defaultOptions()
	opts.compare = []string{"99"}

	err := runBrowse(&bytes.Buffer{}, fixture.Products(), opts)

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestLoadProducts_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	data := []byte("products:\n  - id: a\n    name: Widget\n    brand: Acme\n    price: 100\n    category: tools\n    in_stock: true\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	products, err := loadProducts(path)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Acme", products[0].Brand)
}

func TestLoadProducts_MissingFile(t *testing.T) {
	_, err := loadProducts(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}
