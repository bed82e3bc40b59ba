package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/catalog-browser/internal/domain/catalog"
	"github.com/example/catalog-browser/internal/fixture"
	"github.com/example/catalog-browser/internal/infrastructure/store"
	"github.com/example/catalog-browser/internal/infrastructure/store/mocks"
	"github.com/example/catalog-browser/internal/projection"
)

func newTestHandler() (*Handler, *mocks.MockEventStore, *mocks.MockProductSource, *store.SessionStore) {
	eventStore := mocks.NewMockEventStore()
	source := mocks.NewMockProductSource(fixture.Products())
	sessions := store.NewSessionStore()
	projector := projection.NewProjector(sessions, eventStore, nil)

	handler := NewHandler(eventStore, projector, sessions, source)
	return handler, eventStore, source, sessions
}

func newTestSession(t *testing.T, h *Handler) string {
	t.Helper()
	sessionID, _, err := h.CreateSession(context.Background())
	require.NoError(t, err)
	return sessionID
}

func visibleIDs(s catalog.State) []string {
	ids := make([]string, 0, len(s.VisibleProducts))
	for _, p := range s.VisibleProducts {
		ids = append(ids, p.ID)
	}
	return ids
}

// ============================================
// Session Tests
// ============================================

func TestHandler_CreateSession_LoadsProducts(t *testing.T) {
	handler, eventStore, source, sessions := newTestHandler()

	sessionID, state, err := handler.CreateSession(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	assert.Len(t, state.Products, 8)
	assert.Len(t, state.VisibleProducts, 8)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Equal(t, 1, source.Calls)
	assert.Equal(t, 1, sessions.Len())

	require.Len(t, eventStore.AppendCalls, 2)
	assert.Equal(t, catalog.EventLoadingStarted, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, catalog.EventProductsLoaded, eventStore.AppendCalls[1].EventType)
	assert.Equal(t, catalog.AggregateType, eventStore.AppendCalls[1].AggregateType)
	assert.Equal(t, sessionID, eventStore.AppendCalls[1].AggregateID)
}

func TestHandler_LoadProducts_SourceError(t *testing.T) {
	handler, eventStore, source, _ := newTestHandler()
	source.Err = errors.New("catalog unavailable")

	_, state, err := handler.CreateSession(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "catalog unavailable", state.Error)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Products)
	assert.Equal(t, catalog.EventLoadFailed, eventStore.AppendCalls[1].EventType)
}

func TestHandler_LoadProducts_ReplacesProductsAndKeepsFilters(t *testing.T) {
	handler, _, source, _ := newTestHandler()
	ctx := context.Background()
	sessionID := newTestSession(t, handler)

	_, err := handler.SetCategoryFilter(ctx, SetCategoryFilter{SessionID: sessionID, Categories: []string{"laptops"}})
	require.NoError(t, err)

	source.Products = fixture.Products()[:3]
	state, err := handler.LoadProducts(ctx, LoadProducts{SessionID: sessionID})

	require.NoError(t, err)
	assert.Len(t, state.Products, 3)
	assert.Equal(t, []string{"laptops"}, state.Filters.Categories)
	assert.Empty(t, state.VisibleProducts)
}

func TestHandler_UnknownSession(t *testing.T) {
	handler, eventStore, _, _ := newTestHandler()

	_, err := handler.SetSortKey(context.Background(), SetSortKey{SessionID: "missing", SortBy: "newest"})

	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestHandler_SessionRebuiltFromLog(t *testing.T) {
	handler, _, _, sessions := newTestHandler()
	ctx := context.Background()
	sessionID := newTestSession(t, handler)
	_, err := handler.SetSortKey(ctx, SetSortKey{SessionID: sessionID, SortBy: string(catalog.SortPriceLowHigh)})
	require.NoError(t, err)

	// simulate a restart that lost the live session
	sessions.Delete(sessionID)

	state, err := handler.ToggleComparisonView(ctx, ToggleComparisonView{SessionID: sessionID})

	require.NoError(t, err)
	assert.Equal(t, catalog.SortPriceLowHigh, state.SortBy)
	assert.True(t, state.Comparison.Visible)
}

func TestHandler_EndSession(t *testing.T) {
	handler, eventStore, _, sessions := newTestHandler()
	sessionID := newTestSession(t, handler)

	require.NoError(t, handler.EndSession(context.Background(), EndSession{SessionID: sessionID}))

	assert.Equal(t, 0, sessions.Len())
	last := eventStore.AppendCalls[len(eventStore.AppendCalls)-1]
	assert.Equal(t, catalog.EventSessionEnded, last.EventType)
	assert.ErrorIs(t, handler.EndSession(context.Background(), EndSession{SessionID: sessionID}), store.ErrSessionNotFound)
}

func TestHandler_EndSession_NotRebuiltByLaterCommands(t *testing.T) {
	handler, eventStore, _, sessions := newTestHandler()
	ctx := context.Background()
	sessionID := newTestSession(t, handler)
	require.NoError(t, handler.EndSession(ctx, EndSession{SessionID: sessionID}))
	appended := eventStore.AppendCount()

	_, err := handler.SetSortKey(ctx, SetSortKey{SessionID: sessionID, SortBy: string(catalog.SortNewest)})

	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	assert.Equal(t, 0, sessions.Len())
	assert.Equal(t, appended, eventStore.AppendCount())
}

func TestHandler_EndSession_ClosesSubscriptions(t *testing.T) {
	handler, _, _, sessions := newTestHandler()
	sessionID := newTestSession(t, handler)
	session, err := sessions.Get(sessionID)
	require.NoError(t, err)
	ch, cancel := session.Subscribe()
	defer cancel()
	<-ch

	require.NoError(t, handler.EndSession(context.Background(), EndSession{SessionID: sessionID}))

	_, open := <-ch
	assert.False(t, open)
}

func TestHandler_ResetSession(t *testing.T) {
	handler, _, _, _ := newTestHandler()
	ctx := context.Background()
	sessionID := newTestSession(t, handler)

	_, err := handler.SetBrandFilter(ctx, SetBrandFilter{SessionID: sessionID, Brands: []string{"Apple"}})
	require.NoError(t, err)
	_, err = handler.AddToComparison(ctx, AddToComparison{SessionID: sessionID, ProductID: "1"})
	require.NoError(t, err)

	state, err := handler.ResetSession(ctx, ResetSession{SessionID: sessionID})

	require.NoError(t, err)
	assert.Equal(t, catalog.NewState(fixture.Products()), state)
}

func TestHandler_ResetSession_ReloadsCatalogAfterFailedLoad(t *testing.T) {
	handler, _, source, _ := newTestHandler()
	ctx := context.Background()
	source.Err = errors.New("catalog unavailable")
	sessionID, state, err := handler.CreateSession(ctx)
	require.NoError(t, err)
	require.Empty(t, state.Products)

	source.Err = nil
	state, err = handler.ResetSession(ctx, ResetSession{SessionID: sessionID})

	require.NoError(t, err)
	assert.Equal(t, catalog.NewState(fixture.Products()), state)
}

func TestHandler_ResetSession_SourceErrorKeepsProducts(t *testing.T) {
	handler, _, source, _ := newTestHandler()
	ctx := context.Background()
	sessionID := newTestSession(t, handler)
	_, err := handler.SetSortKey(ctx, SetSortKey{SessionID: sessionID, SortBy: string(catalog.SortNewest)})
	require.NoError(t, err)

	source.Err = errors.New("catalog unavailable")
	state, err := handler.ResetSession(ctx, ResetSession{SessionID: sessionID})

	require.NoError(t, err)
	assert.Equal(t, catalog.NewState(fixture.Products()), state)
}

// ============================================
// Filter and Sort Tests
// ============================================

func TestHandler_FilterAndSort(t *testing.T) {
	handler, _, _, _ := newTestHandler()
	ctx := context.Background()
	sessionID := newTestSession(t, handler)

	_, err := handler.SetCategoryFilter(ctx, SetCategoryFilter{SessionID: sessionID, Categories: []string{"smartphones"}})
	require.NoError(t, err)
	state, err := handler.SetSortKey(ctx, SetSortKey{SessionID: sessionID, SortBy: string(catalog.SortPriceLowHigh)})
	require.NoError(t, err)

	assert.Equal(t, []string{"4", "6", "5", "3", "2", "1"}, visibleIDs(state))

	state, err = handler.SetPriceFilter(ctx, SetPriceFilter{SessionID: sessionID, Min: 0, Max: 70000})
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "6"}, visibleIDs(state))

	state, err = handler.ClearFilters(ctx, ClearFilters{SessionID: sessionID})
	require.NoError(t, err)
	assert.Len(t, state.VisibleProducts, 8)
	assert.Equal(t, catalog.SortPriceLowHigh, state.SortBy)
}

func TestHandler_SetPriceFilter_Bounds(t *testing.T) {
	handler, eventStore, _, _ := newTestHandler()
	ctx := context.Background()
	sessionID := newTestSession(t, handler)
	appended := eventStore.AppendCount()

	_, err := handler.SetPriceFilter(ctx, SetPriceFilter{SessionID: sessionID, Min: 150000, Max: 1000})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, err = handler.SetPriceFilter(ctx, SetPriceFilter{SessionID: sessionID, Min: 0, Max: 900000})
	assert.ErrorIs(t, err, ErrInvalidCommand)
	assert.Equal(t, appended, eventStore.AppendCount())

	state, err := handler.SetPriceFilter(ctx, SetPriceFilter{SessionID: sessionID, Min: 69900, Max: 69900})
	require.NoError(t, err)
	assert.Equal(t, []string{"6"}, visibleIDs(state))

	state, err = handler.SetPriceFilter(ctx, SetPriceFilter{SessionID: sessionID, Min: 0, Max: catalog.MaxPriceCeiling})
	require.NoError(t, err)
	assert.Len(t, state.VisibleProducts, 8)
	assert.False(t, state.Filters.IsFiltered())
}

func TestHandler_SetInStockOnly(t *testing.T) {
	handler, _, source, _ := newTestHandler()
	products := fixture.Products()
	products[0].InStock = false
	source.Products = products
	sessionID := newTestSession(t, handler)

	state, err := handler.SetInStockOnly(context.Background(), SetInStockOnly{SessionID: sessionID, InStockOnly: true})

	require.NoError(t, err)
	assert.Len(t, state.VisibleProducts, 7)
	assert.NotContains(t, visibleIDs(state), "1")
}

func TestHandler_SetCategoryFilter_NilClearsFilter(t *testing.T) {
	handler, eventStore, _, _ := newTestHandler()
	sessionID := newTestSession(t, handler)

	state, err := handler.SetCategoryFilter(context.Background(), SetCategoryFilter{SessionID: sessionID})

	require.NoError(t, err)
	assert.NotNil(t, state.Filters.Categories)
	assert.Empty(t, state.Filters.Categories)
	last := eventStore.AppendCalls[len(eventStore.AppendCalls)-1]
	assert.Equal(t, catalog.CategoryFilterSet{Categories: []string{}}, last.Data)
}

func TestHandler_Validation(t *testing.T) {
	handler, eventStore, _, _ := newTestHandler()
	ctx := context.Background()

	_, err := handler.SetPriceFilter(ctx, SetPriceFilter{SessionID: "s", Min: -1, Max: 100})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, err = handler.SetSortKey(ctx, SetSortKey{SessionID: "s"})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, err = handler.SetBrandFilter(ctx, SetBrandFilter{SessionID: "s", Brands: []string{""}})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, err = handler.ClearComparison(ctx, ClearComparison{})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	assert.Empty(t, eventStore.AppendCalls)
}

func TestHandler_AppendError(t *testing.T) {
	handler, eventStore, _, _ := newTestHandler()
	sessionID := newTestSession(t, handler)
	eventStore.AppendErr = errors.New("disk full")

	_, err := handler.ClearFilters(context.Background(), ClearFilters{SessionID: sessionID})

	assert.ErrorContains(t, err, "disk full")
}

func TestHandler_PublishErrorStillCommits(t *testing.T) {
	publisher := mocks.NewMockPublisher()
	eventStore := store.NewEventStore(publisher)
	sessions := store.NewSessionStore()
	projector := projection.NewProjector(sessions, eventStore, nil)
	handler := NewHandler(eventStore, projector, sessions, mocks.NewMockProductSource(fixture.Products()))
	ctx := context.Background()
	sessionID := newTestSession(t, handler)

	publisher.PublishErr = errors.New("broker down")
	state, err := handler.SetBrandFilter(ctx, SetBrandFilter{SessionID: sessionID, Brands: []string{"Samsung"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, visibleIDs(state))

	session, err := sessions.Get(sessionID)
	require.NoError(t, err)
	assert.Equal(t, len(eventStore.GetEvents(sessionID)), session.Version())
	assert.Equal(t, []string{sessionID, sessionID, sessionID}, publisher.Keys)
}

// ============================================
// Comparison Tests
// ============================================

func TestHandler_Comparison_Flow(t *testing.T) {
	handler, _, _, _ := newTestHandler()
	ctx := context.Background()
	sessionID := newTestSession(t, handler)

	state, err := handler.AddToComparison(ctx, AddToComparison{SessionID: sessionID, ProductID: "1"})
	require.NoError(t, err)
	assert.Len(t, state.Comparison.Products, 1)
	assert.False(t, state.Comparison.Visible)

	state, err = handler.AddToComparison(ctx, AddToComparison{SessionID: sessionID, ProductID: "2"})
	require.NoError(t, err)
	assert.True(t, state.Comparison.Visible)

	for _, id := range []string{"3", "4"} {
		state, err = handler.AddToComparison(ctx, AddToComparison{SessionID: sessionID, ProductID: id})
		require.NoError(t, err)
	}
	assert.Len(t, state.Comparison.Products, catalog.MaxComparison)

	state, err = handler.RemoveFromComparison(ctx, RemoveFromComparison{SessionID: sessionID, ProductID: "2"})
	require.NoError(t, err)
	assert.Len(t, state.Comparison.Products, 2)

	state, err = handler.ToggleComparisonView(ctx, ToggleComparisonView{SessionID: sessionID})
	require.NoError(t, err)
	assert.False(t, state.Comparison.Visible)

	state, err = handler.ClearComparison(ctx, ClearComparison{SessionID: sessionID})
	require.NoError(t, err)
	assert.Empty(t, state.Comparison.Products)
	assert.False(t, state.Comparison.Visible)
}

func TestHandler_AddToComparison_UnknownProduct(t *testing.T) {
	handler, _, _, _ := newTestHandler()
	sessionID := newTestSession(t, handler)

	_, err := handler.AddToComparison(context.Background(), AddToComparison{SessionID: sessionID, ProductID: "99"})

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}
