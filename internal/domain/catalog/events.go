package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

const AggregateType = "CatalogSession"

const (
	EventProductsLoaded        = "ProductsLoaded"
	EventLoadingStarted        = "LoadingStarted"
	EventLoadingFinished       = "LoadingFinished"
	EventLoadFailed            = "LoadFailed"
	EventCategoryFilterSet     = "CategoryFilterSet"
	EventBrandFilterSet        = "BrandFilterSet"
	EventPriceFilterSet        = "PriceFilterSet"
	EventInStockOnlySet        = "InStockOnlySet"
	EventSortKeySet            = "SortKeySet"
	EventFiltersCleared        = "FiltersCleared"
	EventComparisonAdded       = "ComparisonAdded"
	EventComparisonRemoved     = "ComparisonRemoved"
	EventComparisonCleared     = "ComparisonCleared"
	EventComparisonViewToggled = "ComparisonViewToggled"
	EventSessionReset          = "SessionReset"

	// EventSessionEnded closes a session's log. It carries no state transition.
	EventSessionEnded = "SessionEnded"
)

var ErrUnknownEventType = errors.New("unknown event type")

// Intent is a state transition that can be recorded as an event.
type Intent interface {
	EventType() string
	Apply(State) State
}

type ProductsLoaded struct {
	Products []Product `json:"products"`
}

type LoadingStarted struct{}

type LoadingFinished struct{}

type LoadFailed struct {
	Message string `json:"message"`
}

type CategoryFilterSet struct {
	Categories []string `json:"categories"`
}

type BrandFilterSet struct {
	Brands []string `json:"brands"`
}

type PriceFilterSet struct {
	Range PriceRange `json:"range"`
}

type InStockOnlySet struct {
	InStockOnly bool `json:"in_stock_only"`
}

type SortKeySet struct {
	SortBy SortKey `json:"sort_by"`
}

type FiltersCleared struct{}

type ComparisonAdded struct {
	Product Product `json:"product"`
}

type ComparisonRemoved struct {
	ProductID string `json:"product_id"`
}

type ComparisonCleared struct{}

type ComparisonViewToggled struct{}

// SessionReset restores the initial state over the given products.
type SessionReset struct {
	Products []Product `json:"products"`
}

// SessionEnded is the payload recorded under EventSessionEnded.
type SessionEnded struct{}

func (SessionEnded) EventType() string { return EventSessionEnded }

func (ProductsLoaded) EventType() string        { return EventProductsLoaded }
func (LoadingStarted) EventType() string        { return EventLoadingStarted }
func (LoadingFinished) EventType() string       { return EventLoadingFinished }
func (LoadFailed) EventType() string            { return EventLoadFailed }
func (CategoryFilterSet) EventType() string     { return EventCategoryFilterSet }
func (BrandFilterSet) EventType() string        { return EventBrandFilterSet }
func (PriceFilterSet) EventType() string        { return EventPriceFilterSet }
func (InStockOnlySet) EventType() string        { return EventInStockOnlySet }
func (SortKeySet) EventType() string            { return EventSortKeySet }
func (FiltersCleared) EventType() string        { return EventFiltersCleared }
func (ComparisonAdded) EventType() string       { return EventComparisonAdded }
func (ComparisonRemoved) EventType() string     { return EventComparisonRemoved }
func (ComparisonCleared) EventType() string     { return EventComparisonCleared }
func (ComparisonViewToggled) EventType() string { return EventComparisonViewToggled }
func (SessionReset) EventType() string          { return EventSessionReset }

func (e ProductsLoaded) Apply(s State) State      { return s.LoadProducts(e.Products) }
func (LoadingStarted) Apply(s State) State        { return s.StartLoading() }
func (LoadingFinished) Apply(s State) State       { return s.FinishLoading() }
func (e LoadFailed) Apply(s State) State          { return s.SetError(e.Message) }
func (e CategoryFilterSet) Apply(s State) State   { return s.SetCategoryFilter(e.Categories) }
func (e BrandFilterSet) Apply(s State) State      { return s.SetBrandFilter(e.Brands) }
func (e PriceFilterSet) Apply(s State) State      { return s.SetPriceFilter(e.Range) }
func (e InStockOnlySet) Apply(s State) State      { return s.SetInStockOnly(e.InStockOnly) }
func (e SortKeySet) Apply(s State) State          { return s.SetSortKey(e.SortBy) }
func (FiltersCleared) Apply(s State) State        { return s.ClearAllFilters() }
func (e ComparisonAdded) Apply(s State) State     { return s.AddToComparison(e.Product) }
func (e ComparisonRemoved) Apply(s State) State   { return s.RemoveFromComparison(e.ProductID) }
func (ComparisonCleared) Apply(s State) State     { return s.ClearComparison() }
func (ComparisonViewToggled) Apply(s State) State { return s.ToggleComparisonView() }
func (e SessionReset) Apply(State) State          { return NewState(e.Products) }

// DecodeIntent rebuilds the intent recorded under eventType.
func DecodeIntent(eventType string, data []byte) (Intent, error) {
	switch eventType {
	case EventProductsLoaded:
		return decode[ProductsLoaded](data)
	case EventLoadingStarted:
		return LoadingStarted{}, nil
	case EventLoadingFinished:
		return LoadingFinished{}, nil
	case EventLoadFailed:
		return decode[LoadFailed](data)
	case EventCategoryFilterSet:
		return decode[CategoryFilterSet](data)
	case EventBrandFilterSet:
		return decode[BrandFilterSet](data)
	case EventPriceFilterSet:
		return decode[PriceFilterSet](data)
	case EventInStockOnlySet:
		return decode[InStockOnlySet](data)
	case EventSortKeySet:
		return decode[SortKeySet](data)
	case EventFiltersCleared:
		return FiltersCleared{}, nil
	case EventComparisonAdded:
		return decode[ComparisonAdded](data)
	case EventComparisonRemoved:
		return decode[ComparisonRemoved](data)
	case EventComparisonCleared:
		return ComparisonCleared{}, nil
	case EventComparisonViewToggled:
		return ComparisonViewToggled{}, nil
	case EventSessionReset:
		return decode[SessionReset](data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
}

func decode[T Intent](data []byte) (Intent, error) {
	var intent T
	if err := json.Unmarshal(data, &intent); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", intent.EventType(), err)
	}
	return intent, nil
}
