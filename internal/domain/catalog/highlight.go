package catalog

// Highlight marks a compared value as the best or worst of the set.
type Highlight string

const (
	HighlightNone  Highlight = ""
	HighlightBest  Highlight = "best"
	HighlightWorst Highlight = "worst"
)

// ProductHighlights holds the price and rating highlight for one compared product.
type ProductHighlights struct {
	ProductID string    `json:"product_id"`
	Price     Highlight `json:"price,omitempty"`
	Rating    Highlight `json:"rating,omitempty"`
}

// Highlights computes best/worst markers for a comparison set. The lowest
// price and the highest rating are best. When best and worst coincide, best
// wins. Sets with fewer than two products get no highlights.
func Highlights(c ComparisonSet) []ProductHighlights {
	if len(c.Products) < 2 {
		return []ProductHighlights{}
	}

	minPrice, maxPrice := c.Products[0].Price, c.Products[0].Price
	minRating, maxRating := c.Products[0].Rating, c.Products[0].Rating
	for _, p := range c.Products[1:] {
		minPrice = min(minPrice, p.Price)
		maxPrice = max(maxPrice, p.Price)
		minRating = min(minRating, p.Rating)
		maxRating = max(maxRating, p.Rating)
	}

	out := make([]ProductHighlights, 0, len(c.Products))
	for _, p := range c.Products {
		h := ProductHighlights{ProductID: p.ID}
		switch p.Price {
		case minPrice:
			h.Price = HighlightBest
		case maxPrice:
			h.Price = HighlightWorst
		}
		switch p.Rating {
		case maxRating:
			h.Rating = HighlightBest
		case minRating:
			h.Rating = HighlightWorst
		}
		out = append(out, h)
	}
	return out
}
