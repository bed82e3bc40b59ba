package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// State Transition Tests
// ============================================

func TestNewState_Defaults(t *testing.T) {
	s := NewState(seedProducts())

	assert.Equal(t, SortRecommended, s.SortBy)
	assert.Equal(t, DefaultFilters(), s.Filters)
	assert.Equal(t, []string{"8", "6", "2", "1", "4", "7", "5", "3"}, ids(s.VisibleProducts))
	assert.Empty(t, s.Comparison.Products)
	assert.False(t, s.Comparison.Visible)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
}

func TestState_EndToEnd_SmartphonesByPrice(t *testing.T) {
	s := NewState(nil).LoadProducts(seedProducts())

	s = s.SetCategoryFilter([]string{"smartphones"})
	require.Len(t, s.VisibleProducts, 6)
	assert.ElementsMatch(t, []string{"1", "2", "3", "4", "5", "6"}, ids(s.VisibleProducts))

	s = s.SetSortKey(SortPriceLowHigh)
	assert.Equal(t, []string{"4", "6", "5", "3", "2", "1"}, ids(s.VisibleProducts))
	for i := 1; i < len(s.VisibleProducts); i++ {
		assert.LessOrEqual(t, s.VisibleProducts[i-1].Price, s.VisibleProducts[i].Price)
	}
}

func TestState_LoadProducts_ClearsLoadingAndError(t *testing.T) {
	s := NewState(nil).StartLoading().SetError("boom")
	assert.False(t, s.Loading)

	s = s.StartLoading().LoadProducts(seedProducts())

	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Len(t, s.Products, 8)
}

func TestState_LoadProducts_KeepsCurrentFiltersAndSort(t *testing.T) {
	s := NewState(nil).
		SetBrandFilter([]string{"Apple"}).
		SetSortKey(SortPriceHighLow)
	assert.Empty(t, s.VisibleProducts)

	s = s.LoadProducts(seedProducts())

	assert.Equal(t, []string{"7", "1", "6", "8"}, ids(s.VisibleProducts))
}

func TestState_SetError_LeavesProducts(t *testing.T) {
	s := NewState(seedProducts()).StartLoading()

	s = s.SetError("network unreachable")

	assert.Equal(t, "network unreachable", s.Error)
	assert.False(t, s.Loading)
	assert.Len(t, s.Products, 8)
	assert.Len(t, s.VisibleProducts, 8)
}

func TestState_FinishLoading(t *testing.T) {
	s := NewState(seedProducts()).StartLoading()
	assert.True(t, s.Loading)

	assert.False(t, s.FinishLoading().Loading)
}

func TestState_SetPriceFilter(t *testing.T) {
	s := NewState(seedProducts()).SetPriceFilter(PriceRange{Min: 0, Max: 70000})

	assert.ElementsMatch(t, []string{"4", "6", "8"}, ids(s.VisibleProducts))
}

func TestState_SetPriceFilter_ClampsInvertedRange(t *testing.T) {
	s := NewState(seedProducts()).SetPriceFilter(PriceRange{Min: 150000, Max: 69900})

	assert.Equal(t, PriceRange{Min: 69900, Max: 69900}, s.Filters.PriceRange)
	assert.Equal(t, []string{"6"}, ids(s.VisibleProducts))
}

func TestState_SetInStockOnly(t *testing.T) {
	products := seedProducts()
	products[0].InStock = false

	s := NewState(products).SetInStockOnly(true)

	assert.Len(t, s.VisibleProducts, 7)
	assert.NotContains(t, ids(s.VisibleProducts), "1")
	assert.True(t, s.Filters.InStockOnly)
}

func TestState_SetSortKey_UnknownKeyIsKept(t *testing.T) {
	s := NewState(seedProducts()).SetSortKey(SortKey("trending"))

	assert.Equal(t, SortKey("trending"), s.SortBy)
	assert.Equal(t, []string{"8", "6", "2", "1", "4", "7", "5", "3"}, ids(s.VisibleProducts))
}

func TestState_ClearAllFilters_RestoresSortedCatalog(t *testing.T) {
	s := NewState(seedProducts()).
		SetSortKey(SortDiscount).
		SetCategoryFilter([]string{"laptops"}).
		SetBrandFilter([]string{"Samsung"}).
		SetPriceFilter(PriceRange{Min: 0, Max: 1000}).
		SetInStockOnly(true)
	assert.Empty(t, s.VisibleProducts)

	s = s.ClearAllFilters()

	assert.Equal(t, DefaultFilters(), s.Filters)
	assert.Equal(t, ids(Sort(seedProducts(), SortDiscount)), ids(s.VisibleProducts))
}

func TestState_FilterTransitionsDoNotAliasCallerSlices(t *testing.T) {
	categories := []string{"laptops"}
	s := NewState(seedProducts()).SetCategoryFilter(categories)

	categories[0] = "smartphones"

	assert.Equal(t, []string{"laptops"}, s.Filters.Categories)
	assert.Equal(t, []string{"7"}, ids(s.VisibleProducts))
}

func TestState_TransitionsDoNotMutatePrevious(t *testing.T) {
	before := NewState(seedProducts())

	_ = before.SetCategoryFilter([]string{"laptops"})
	_ = before.AddToComparison(productByID("1"))

	assert.Empty(t, before.Filters.Categories)
	assert.Len(t, before.VisibleProducts, 8)
	assert.Empty(t, before.Comparison.Products)
}

func TestState_ComparisonIntentsOnlyTouchComparison(t *testing.T) {
	s := NewState(seedProducts()).SetCategoryFilter([]string{"smartphones"})
	visible := ids(s.VisibleProducts)

	s = s.AddToComparison(productByID("1")).
		AddToComparison(productByID("2")).
		ToggleComparisonView().
		RemoveFromComparison("1").
		ClearComparison()

	assert.Equal(t, visible, ids(s.VisibleProducts))
	assert.Equal(t, []string{"smartphones"}, s.Filters.Categories)
	assert.Empty(t, s.Comparison.Products)
	assert.False(t, s.Comparison.Visible)
}

func TestState_Clone_IsIndependent(t *testing.T) {
	s := NewState(seedProducts()).SetBrandFilter([]string{"Apple"})
	c := s.Clone()

	c.Filters.Brands[0] = "Samsung"
	c.VisibleProducts[0] = Product{ID: "x"}

	assert.Equal(t, "Apple", s.Filters.Brands[0])
	assert.NotEqual(t, "x", s.VisibleProducts[0].ID)
}

func TestState_InComparisonAndFull(t *testing.T) {
	s := NewState(seedProducts()).
		AddToComparison(productByID("1")).
		AddToComparison(productByID("2"))

	assert.True(t, s.InComparison("1"))
	assert.False(t, s.InComparison("3"))
	assert.False(t, s.ComparisonFull())

	s = s.AddToComparison(productByID("3"))
	assert.True(t, s.ComparisonFull())
}
