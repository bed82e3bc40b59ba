package query

import "github.com/example/catalog-browser/internal/domain/catalog"

// CatalogView is the full read model of one session
type CatalogView struct {
	SessionID    string               `json:"session_id"`
	Version      int                  `json:"version"`
	Products     []ProductCard        `json:"products"`
	VisibleCount int                  `json:"visible_count"`
	TotalCount   int                  `json:"total_count"`
	Filters      catalog.FilterConfig `json:"filters"`
	IsFiltered   bool                 `json:"is_filtered"`
	SortBy       catalog.SortKey      `json:"sort_by"`
	Comparison   ComparisonView       `json:"comparison"`
	Loading      bool                 `json:"loading"`
	Error        string               `json:"error,omitempty"`
}

// ProductCard is a visible product annotated with its comparison status
type ProductCard struct {
	catalog.Product
	InComparison   bool `json:"in_comparison"`
	CompareBlocked bool `json:"compare_blocked"` // set is full and this product is not in it
}

// ComparisonView is the comparison set with per-product highlights
type ComparisonView struct {
	Products   []catalog.Product           `json:"products"`
	Visible    bool                        `json:"visible"`
	Count      int                         `json:"count"`
	Full       bool                        `json:"full"`
	Highlights []catalog.ProductHighlights `json:"highlights"`
}
