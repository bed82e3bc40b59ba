package query

import (
	"github.com/example/catalog-browser/internal/domain/catalog"
	"github.com/example/catalog-browser/internal/infrastructure/store"
)

type Handler struct {
	sessions *store.SessionStore
}

func NewHandler(sessions *store.SessionStore) *Handler {
	return &Handler{sessions: sessions}
}

// GetState returns the raw session state
func (h *Handler) GetState(sessionID string) (catalog.State, error) {
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		return catalog.State{}, err
	}
	return session.State(), nil
}

// GetCatalog returns the session read model
func (h *Handler) GetCatalog(sessionID string) (*CatalogView, error) {
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	state, version := session.Snapshot()
	view := BuildCatalogView(state)
	view.SessionID = sessionID
	view.Version = version
	return view, nil
}

// GetVisibleProducts returns the filtered and sorted product cards
func (h *Handler) GetVisibleProducts(sessionID string) ([]ProductCard, error) {
	state, err := h.GetState(sessionID)
	if err != nil {
		return nil, err
	}
	return productCards(state), nil
}

// GetComparison returns the comparison set with highlights
func (h *Handler) GetComparison(sessionID string) (*ComparisonView, error) {
	state, err := h.GetState(sessionID)
	if err != nil {
		return nil, err
	}
	view := comparisonView(state.Comparison)
	return &view, nil
}

// GetFacets returns filter metadata over all loaded products
func (h *Handler) GetFacets(sessionID string) (catalog.Facets, error) {
	state, err := h.GetState(sessionID)
	if err != nil {
		return catalog.Facets{}, err
	}
	return catalog.ComputeFacets(state.Products), nil
}

// SearchBrands returns loaded brand names matching q
func (h *Handler) SearchBrands(sessionID, q string) ([]string, error) {
	state, err := h.GetState(sessionID)
	if err != nil {
		return nil, err
	}
	return catalog.SearchBrands(state.Products, q), nil
}

// BuildCatalogView derives the read model from a state
func BuildCatalogView(state catalog.State) *CatalogView {
	return &CatalogView{
		Products:     productCards(state),
		VisibleCount: len(state.VisibleProducts),
		TotalCount:   len(state.Products),
		Filters:      state.Filters,
		IsFiltered:   state.Filters.IsFiltered(),
		SortBy:       state.SortBy,
		Comparison:   comparisonView(state.Comparison),
		Loading:      state.Loading,
		Error:        state.Error,
	}
}

func productCards(state catalog.State) []ProductCard {
	full := state.ComparisonFull()
	cards := make([]ProductCard, 0, len(state.VisibleProducts))
	for _, p := range state.VisibleProducts {
		in := state.InComparison(p.ID)
		cards = append(cards, ProductCard{
			Product:        p,
			InComparison:   in,
			CompareBlocked: full && !in,
		})
	}
	return cards
}

func comparisonView(c catalog.ComparisonSet) ComparisonView {
	products := c.Products
	if products == nil {
		products = []catalog.Product{}
	}
	return ComparisonView{
		Products:   products,
		Visible:    c.Visible,
		Count:      len(products),
		Full:       c.Full(),
		Highlights: catalog.Highlights(c),
	}
}

// Subscribe streams the session state after every commit
func (h *Handler) Subscribe(sessionID string) (<-chan catalog.State, func(), error) {
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}
