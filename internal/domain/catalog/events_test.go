package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIntent_ReplayMatchesDirectDispatch(t *testing.T) {
	intents := []Intent{
		LoadingStarted{},
		ProductsLoaded{Products: seedProducts()},
		CategoryFilterSet{Categories: []string{"smartphones"}},
		BrandFilterSet{Brands: []string{"Apple", "Samsung"}},
		PriceFilterSet{Range: PriceRange{Min: 0, Max: 150000}},
		InStockOnlySet{InStockOnly: true},
		SortKeySet{SortBy: SortPriceHighLow},
		ComparisonAdded{Product: productByID("1")},
		ComparisonAdded{Product: productByID("2")},
		ComparisonViewToggled{},
		ComparisonRemoved{ProductID: "1"},
		LoadFailed{Message: "timeout"},
		LoadingFinished{},
	}

	direct := NewState(nil)
	replayed := NewState(nil)
	for _, intent := range intents {
		direct = intent.Apply(direct)

		data, err := json.Marshal(intent)
		require.NoError(t, err)
		decoded, err := DecodeIntent(intent.EventType(), data)
		require.NoError(t, err)
		assert.Equal(t, intent.EventType(), decoded.EventType())
		replayed = decoded.Apply(replayed)
	}

	assert.Equal(t, direct, replayed)
	assert.Equal(t, []string{"1", "2", "6"}, ids(replayed.VisibleProducts))
}

func TestDecodeIntent_EmptyPayloadEvents(t *testing.T) {
	for _, eventType := range []string{EventLoadingStarted, EventLoadingFinished, EventFiltersCleared, EventComparisonCleared, EventComparisonViewToggled} {
		intent, err := DecodeIntent(eventType, nil)
		require.NoError(t, err)
		assert.Equal(t, eventType, intent.EventType())
	}
}

func TestDecodeIntent_UnknownEventType(t *testing.T) {
	_, err := DecodeIntent("ProductDeleted", []byte(`{}`))

	assert.ErrorIs(t, err, ErrUnknownEventType)
}

func TestDecodeIntent_MalformedPayload(t *testing.T) {
	_, err := DecodeIntent(EventSortKeySet, []byte(`{"sort_by":`))

	assert.Error(t, err)
}

func TestSessionReset_RestoresInitialState(t *testing.T) {
	s := NewState(seedProducts()).
		SetCategoryFilter([]string{"laptops"}).
		AddToComparison(productByID("1")).
		SetError("boom")

	s = SessionReset{Products: seedProducts()}.Apply(s)

	assert.Equal(t, NewState(seedProducts()), s)
}
