package catalog

import "slices"

// MaxPriceCeiling is the upper bound of the price slider.
const MaxPriceCeiling = 200000

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Clamp bounds both ends to [0, MaxPriceCeiling] and lowers Min to Max
// when it is above it, so the range always satisfies Min <= Max.
func (r PriceRange) Clamp() PriceRange {
	r.Max = min(max(r.Max, 0), MaxPriceCeiling)
	r.Min = min(max(r.Min, 0), r.Max)
	return r
}

// Contains reports whether min <= price <= max.
func (r PriceRange) Contains(price int) bool {
	return price >= r.Min && price <= r.Max
}

// FilterConfig holds the currently applied filter criteria.
// An empty Categories or Brands slice means no restriction.
type FilterConfig struct {
	Categories  []string   `json:"categories"`
	Brands      []string   `json:"brands"`
	PriceRange  PriceRange `json:"price_range"`
	InStockOnly bool       `json:"in_stock_only"`
}

// DefaultFilters returns the unrestricted filter configuration.
func DefaultFilters() FilterConfig {
	return FilterConfig{
		Categories: []string{},
		Brands:     []string{},
		PriceRange: PriceRange{Min: 0, Max: MaxPriceCeiling},
	}
}

func (f FilterConfig) clone() FilterConfig {
	out := f
	out.Categories = cloneStrings(f.Categories)
	out.Brands = cloneStrings(f.Brands)
	return out
}

// IsFiltered reports whether any user-visible filter narrows the catalog.
func (f FilterConfig) IsFiltered() bool {
	return len(f.Categories) > 0 || len(f.Brands) > 0 || f.PriceRange.Max < MaxPriceCeiling
}

// Matches reports whether a product satisfies every clause of the filter.
func Matches(p Product, f FilterConfig) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
		return false
	}
	if len(f.Brands) > 0 && !slices.Contains(f.Brands, p.Brand) {
		return false
	}
	if !f.PriceRange.Contains(p.Price) {
		return false
	}
	if f.InStockOnly && !p.InStock {
		return false
	}
	return true
}

// Filter returns the products matching f, in their original order.
// The input slice is never modified.
func Filter(products []Product, f FilterConfig) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if Matches(p, f) {
			out = append(out, p)
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
