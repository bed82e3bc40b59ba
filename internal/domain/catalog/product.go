package catalog

import "errors"

var ErrProductNotFound = errors.New("product not found")

// Product is a catalog entry. Products are immutable once loaded.
type Product struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Brand         string   `json:"brand" yaml:"brand"`
	Image         string   `json:"image" yaml:"image"`
	Price         int      `json:"price" yaml:"price"`
	OriginalPrice *int     `json:"original_price,omitempty" yaml:"original_price,omitempty"`
	Features      []string `json:"features" yaml:"features"`
	Category      string   `json:"category" yaml:"category"`
	InStock       bool     `json:"in_stock" yaml:"in_stock"`
	Rating        float64  `json:"rating" yaml:"rating"`
	ReviewCount   int      `json:"review_count" yaml:"review_count"`
	Discount      *int     `json:"discount,omitempty" yaml:"discount,omitempty"`
}

// DiscountOrZero returns the discount percentage, treating an absent discount as 0.
func (p Product) DiscountOrZero() int {
	if p.Discount == nil {
		return 0
	}
	return *p.Discount
}

// RelevanceScore is the rating weighted by review count.
func (p Product) RelevanceScore() float64 {
	return p.Rating * float64(p.ReviewCount)
}

// IntPtr is a helper for building products with optional fields.
func IntPtr(v int) *int {
	return &v
}

func cloneProducts(products []Product) []Product {
	if products == nil {
		return []Product{}
	}
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// FindProduct looks up a product by id in the given list.
func FindProduct(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
