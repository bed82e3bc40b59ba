package catalog

// MaxComparison is the maximum number of products that can be compared.
const MaxComparison = 3

// ComparisonSet is the user's side-by-side selection.
type ComparisonSet struct {
	Products []Product `json:"products"`
	Visible  bool      `json:"visible"`
}

// EmptyComparison returns an empty, hidden set.
func EmptyComparison() ComparisonSet {
	return ComparisonSet{Products: []Product{}}
}

// Contains reports whether a product with id is selected.
func (c ComparisonSet) Contains(id string) bool {
	_, ok := FindProduct(c.Products, id)
	return ok
}

// Full reports whether no more products can be added.
func (c ComparisonSet) Full() bool {
	return len(c.Products) >= MaxComparison
}

// Add appends p unless it is already selected or the set is full; both of
// those cases return c unchanged. Visibility follows len >= 2.
func (c ComparisonSet) Add(p Product) ComparisonSet {
	if c.Contains(p.ID) || c.Full() {
		return c
	}
	products := make([]Product, 0, len(c.Products)+1)
	products = append(products, c.Products...)
	products = append(products, p)
	return ComparisonSet{Products: products, Visible: len(products) >= 2}
}

// Remove drops the product with id if present and recomputes visibility.
func (c ComparisonSet) Remove(id string) ComparisonSet {
	products := make([]Product, 0, len(c.Products))
	for _, p := range c.Products {
		if p.ID != id {
			products = append(products, p)
		}
	}
	return ComparisonSet{Products: products, Visible: len(products) >= 2}
}

// Clear empties the set and hides it.
func (c ComparisonSet) Clear() ComparisonSet {
	return EmptyComparison()
}

// ToggleVisibility flips visibility regardless of membership. Gating an empty
// or single-item view is up to the caller.
func (c ComparisonSet) ToggleVisibility() ComparisonSet {
	return ComparisonSet{Products: cloneProducts(c.Products), Visible: !c.Visible}
}
