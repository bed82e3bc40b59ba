package catalog

import (
	"slices"
	"strings"
)

// FacetCount is the number of products carrying one facet value.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets summarises the full product list for the filter sidebar.
type Facets struct {
	Categories []FacetCount `json:"categories"`
	Brands     []FacetCount `json:"brands"`
	PriceRange PriceRange   `json:"price_range"`
	InStock    int          `json:"in_stock"`
	OutOfStock int          `json:"out_of_stock"`
}

// ComputeFacets counts categories and brands over products. Facet values are
// returned in order of first appearance.
func ComputeFacets(products []Product) Facets {
	f := Facets{
		Categories: []FacetCount{},
		Brands:     []FacetCount{},
	}
	if len(products) == 0 {
		return f
	}

	f.PriceRange = PriceRange{Min: products[0].Price, Max: products[0].Price}
	categoryIdx := make(map[string]int)
	brandIdx := make(map[string]int)

	for _, p := range products {
		f.Categories = countFacet(f.Categories, categoryIdx, p.Category)
		f.Brands = countFacet(f.Brands, brandIdx, p.Brand)
		f.PriceRange.Min = min(f.PriceRange.Min, p.Price)
		f.PriceRange.Max = max(f.PriceRange.Max, p.Price)
		if p.InStock {
			f.InStock++
		} else {
			f.OutOfStock++
		}
	}
	return f
}

func countFacet(counts []FacetCount, idx map[string]int, value string) []FacetCount {
	if i, ok := idx[value]; ok {
		counts[i].Count++
		return counts
	}
	idx[value] = len(counts)
	return append(counts, FacetCount{Value: value, Count: 1})
}

// SearchBrands returns the distinct brands of products whose name contains
// query, case-insensitively. An empty query returns every brand.
func SearchBrands(products []Product, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range products {
		if seen[p.Brand] {
			continue
		}
		seen[p.Brand] = true
		if strings.Contains(strings.ToLower(p.Brand), q) {
			out = append(out, p.Brand)
		}
	}
	slices.Sort(out)
	return out
}
