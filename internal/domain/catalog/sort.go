package catalog

import (
	"cmp"
	"slices"
	"strings"
)

// SortKey selects the ordering of the visible products.
type SortKey string

const (
	SortRecommended    SortKey = "recommended"
	SortNewest         SortKey = "newest"
	SortPopularity     SortKey = "popularity"
	SortPriceLowHigh   SortKey = "price_low_high"
	SortPriceHighLow   SortKey = "price_high_low"
	SortCustomerRating SortKey = "customer_rating"
	SortDiscount       SortKey = "discount"
)

// SortKeys lists every known key in display order.
var SortKeys = []SortKey{
	SortRecommended,
	SortNewest,
	SortPopularity,
	SortPriceLowHigh,
	SortPriceHighLow,
	SortCustomerRating,
	SortDiscount,
}

// Known reports whether k is one of the enumerated sort keys.
func (k SortKey) Known() bool {
	return slices.Contains(SortKeys, k)
}

// Comparator orders two products; negative means a sorts before b.
type Comparator func(a, b Product) int

// ComparatorFor returns the ordering rule for key. Unknown keys use the
// recommended ordering.
func ComparatorFor(key SortKey) Comparator {
	switch key {
	case SortPriceLowHigh:
		return func(a, b Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHighLow:
		return func(a, b Product) int { return cmp.Compare(b.Price, a.Price) }
	case SortCustomerRating:
		return func(a, b Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortPopularity:
		return func(a, b Product) int { return cmp.Compare(b.ReviewCount, a.ReviewCount) }
	case SortDiscount:
		return func(a, b Product) int { return cmp.Compare(b.DiscountOrZero(), a.DiscountOrZero()) }
	case SortNewest:
		// Ids stand in for recency; there is no real timestamp on a product.
		return func(a, b Product) int { return strings.Compare(b.ID, a.ID) }
	default:
		return func(a, b Product) int { return cmp.Compare(b.RelevanceScore(), a.RelevanceScore()) }
	}
}

// Sort returns a stably sorted copy of products.
func Sort(products []Product, key SortKey) []Product {
	out := cloneProducts(products)
	slices.SortStableFunc(out, ComparatorFor(key))
	return out
}

// Apply derives the visible view: sort(filter(products, f), key).
func Apply(products []Product, f FilterConfig, key SortKey) []Product {
	filtered := Filter(products, f)
	slices.SortStableFunc(filtered, ComparatorFor(key))
	return filtered
}
