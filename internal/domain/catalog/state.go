package catalog

// State is the root of a browsing session. VisibleProducts is always derived
// from Products, Filters and SortBy and is never patched directly.
type State struct {
	Products        []Product     `json:"products"`
	Filters         FilterConfig  `json:"filters"`
	SortBy          SortKey       `json:"sort_by"`
	VisibleProducts []Product     `json:"visible_products"`
	Comparison      ComparisonSet `json:"comparison"`
	Loading         bool          `json:"loading"`
	Error           string        `json:"error"`
}

// NewState returns the initial state over products with default filters and
// the recommended ordering.
func NewState(products []Product) State {
	s := State{
		Products:   cloneProducts(products),
		Filters:    DefaultFilters(),
		SortBy:     SortRecommended,
		Comparison: EmptyComparison(),
	}
	return s.recompute()
}

// Clone returns a deep copy of the slices held by s. Products themselves are
// immutable and are shared.
func (s State) Clone() State {
	out := s
	out.Products = cloneProducts(s.Products)
	out.Filters = s.Filters.clone()
	out.VisibleProducts = cloneProducts(s.VisibleProducts)
	out.Comparison = ComparisonSet{
		Products: cloneProducts(s.Comparison.Products),
		Visible:  s.Comparison.Visible,
	}
	return out
}

func (s State) recompute() State {
	s.VisibleProducts = Apply(s.Products, s.Filters, s.SortBy)
	return s
}

// LoadProducts replaces the product list and clears loading and error.
func (s State) LoadProducts(products []Product) State {
	s.Products = cloneProducts(products)
	s.Loading = false
	s.Error = ""
	return s.recompute()
}

// StartLoading marks a product load as in flight.
func (s State) StartLoading() State {
	s.Loading = true
	return s
}

// FinishLoading clears the loading flag without touching products.
func (s State) FinishLoading() State {
	s.Loading = false
	return s
}

// SetError records a load failure. Product data is left as is.
func (s State) SetError(message string) State {
	s.Loading = false
	s.Error = message
	return s
}

// SetCategoryFilter replaces the selected categories.
func (s State) SetCategoryFilter(categories []string) State {
	s.Filters = s.Filters.clone()
	s.Filters.Categories = cloneStrings(categories)
	return s.recompute()
}

// SetBrandFilter replaces the selected brands.
func (s State) SetBrandFilter(brands []string) State {
	s.Filters = s.Filters.clone()
	s.Filters.Brands = cloneStrings(brands)
	return s.recompute()
}

// SetPriceFilter replaces the price range. Out-of-range bounds are clamped.
func (s State) SetPriceFilter(r PriceRange) State {
	s.Filters = s.Filters.clone()
	s.Filters.PriceRange = r.Clamp()
	return s.recompute()
}

// SetInStockOnly toggles the stock restriction.
func (s State) SetInStockOnly(inStockOnly bool) State {
	s.Filters = s.Filters.clone()
	s.Filters.InStockOnly = inStockOnly
	return s.recompute()
}

// SetSortKey changes the ordering. Unknown keys are kept as given and order
// like recommended.
func (s State) SetSortKey(key SortKey) State {
	s.SortBy = key
	return s.recompute()
}

// ClearAllFilters resets the filter configuration to defaults.
func (s State) ClearAllFilters() State {
	s.Filters = DefaultFilters()
	return s.recompute()
}

// AddToComparison adds p to the comparison set.
func (s State) AddToComparison(p Product) State {
	s.Comparison = s.Comparison.Add(p)
	return s
}

// RemoveFromComparison drops id from the comparison set.
func (s State) RemoveFromComparison(id string) State {
	s.Comparison = s.Comparison.Remove(id)
	return s
}

// ClearComparison empties the comparison set.
func (s State) ClearComparison() State {
	s.Comparison = s.Comparison.Clear()
	return s
}

// ToggleComparisonView flips comparison visibility.
func (s State) ToggleComparisonView() State {
	s.Comparison = s.Comparison.ToggleVisibility()
	return s
}

// InComparison reports whether the product is in the comparison set.
func (s State) InComparison(id string) bool {
	return s.Comparison.Contains(id)
}

// ComparisonFull reports whether the comparison set is at capacity.
func (s State) ComparisonFull() bool {
	return s.Comparison.Full()
}
