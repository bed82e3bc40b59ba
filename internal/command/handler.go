package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/catalog-browser/internal/domain/catalog"
	"github.com/example/catalog-browser/internal/infrastructure/store"
	"github.com/example/catalog-browser/internal/metrics"
	"github.com/example/catalog-browser/internal/projection"
)

// Handler records catalog intents and applies them to live sessions
type Handler struct {
	eventStore store.EventStoreInterface
	projector  *projection.Projector
	sessions   *store.SessionStore
	source     store.ProductSource

	mu    sync.Mutex
	locks map[string]*sync.Mutex // sessionID -> commit lock
}

func NewHandler(
	eventStore store.EventStoreInterface,
	projector *projection.Projector,
	sessions *store.SessionStore,
	source store.ProductSource,
) *Handler {
	return &Handler{
		eventStore: eventStore,
		projector:  projector,
		sessions:   sessions,
		source:     source,
		locks:      make(map[string]*sync.Mutex),
	}
}

// CreateSession starts a new session and loads its products
func (h *Handler) CreateSession(ctx context.Context) (string, catalog.State, error) {
	sessionID := uuid.New().String()
	h.sessions.Set(sessionID, catalog.NewStore(nil))
	metrics.ActiveSessions.Inc()
	log.Printf("[Command] Session created: %s", sessionID)

	state, err := h.LoadProducts(ctx, LoadProducts{SessionID: sessionID})
	if err != nil {
		return "", catalog.State{}, err
	}
	return sessionID, state, nil
}

// EndSession records the end of a session and drops it. Ended sessions are
// never rebuilt from the log, so later commands fail with ErrSessionNotFound.
func (h *Handler) EndSession(ctx context.Context, cmd EndSession) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}
	if _, err := h.session(ctx, cmd.SessionID); err != nil {
		return err
	}

	lock := h.lockFor(cmd.SessionID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := h.sessions.Get(cmd.SessionID); err != nil {
		return err
	}
	event, err := h.eventStore.Append(ctx, cmd.SessionID, catalog.AggregateType, catalog.EventSessionEnded, catalog.SessionEnded{})
	if err != nil {
		metrics.CommandErrors.WithLabelValues("append").Inc()
		return fmt.Errorf("failed to append %s: %w", catalog.EventSessionEnded, err)
	}
	if _, err := h.projector.Apply(ctx, *event); err != nil {
		return fmt.Errorf("failed to apply %s: %w", catalog.EventSessionEnded, err)
	}
	metrics.ActiveSessions.Dec()
	log.Printf("[Command] Session ended: %s", cmd.SessionID)

	h.mu.Lock()
	delete(h.locks, cmd.SessionID)
	h.mu.Unlock()
	return nil
}

// LoadProducts fetches the catalog from the product source.
// A source failure is recorded in the session state, not returned.
func (h *Handler) LoadProducts(ctx context.Context, cmd LoadProducts) (catalog.State, error) {
	if err := validateCommand(cmd); err != nil {
		return catalog.State{}, err
	}
	if _, err := h.session(ctx, cmd.SessionID); err != nil {
		return catalog.State{}, err
	}

	if _, err := h.commit(ctx, cmd.SessionID, catalog.LoadingStarted{}); err != nil {
		return catalog.State{}, err
	}

	start := time.Now()
	products, err := h.source.LoadProducts(ctx)
	metrics.LoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LoadFailures.Inc()
		log.Printf("[Command] Product load failed for session %s: %v", cmd.SessionID, err)
		// record the failure even if the request context is gone
		return h.commit(context.WithoutCancel(ctx), cmd.SessionID, catalog.LoadFailed{Message: err.Error()})
	}

	return h.commit(ctx, cmd.SessionID, catalog.ProductsLoaded{Products: products})
}

// ResetSession restores the initial state over a fresh copy of the catalog.
// If the product source fails the session's current products are kept.
func (h *Handler) ResetSession(ctx context.Context, cmd ResetSession) (catalog.State, error) {
	if err := validateCommand(cmd); err != nil {
		return catalog.State{}, err
	}
	session, err := h.session(ctx, cmd.SessionID)
	if err != nil {
		return catalog.State{}, err
	}

	products, err := h.source.LoadProducts(ctx)
	if err != nil {
		metrics.LoadFailures.Inc()
		log.Printf("[Command] Reset of session %s keeps current products: %v", cmd.SessionID, err)
		products = session.State().Products
	}
	return h.commit(ctx, cmd.SessionID, catalog.SessionReset{Products: products})
}

func (h *Handler) SetCategoryFilter(ctx context.Context, cmd SetCategoryFilter) (catalog.State, error) {
	return h.dispatch(ctx, cmd, cmd.SessionID, catalog.CategoryFilterSet{Categories: nonNil(cmd.Categories)})
}

func (h *Handler) SetBrandFilter(ctx context.Context, cmd SetBrandFilter) (catalog.State, error) {
	return h.dispatch(ctx, cmd, cmd.SessionID, catalog.BrandFilterSet{Brands: nonNil(cmd.Brands)})
}

func (h *Handler) SetPriceFilter(ctx context.Context, cmd SetPriceFilter) (catalog.State, error) {
	return h.dispatch(ctx, cmd, cmd.SessionID, catalog.PriceFilterSet{Range: catalog.PriceRange{Min: cmd.Min, Max: cmd.Max}})
}

func (h *Handler) SetInStockOnly(ctx context.Context, cmd SetInStockOnly) (catalog.State, error) {
	return h.dispatch(ctx, cmd, cmd.SessionID, catalog.InStockOnlySet{InStockOnly: cmd.InStockOnly})
}

func (h *Handler) ClearFilters(ctx context.Context, cmd ClearFilters) (catalog.State, error) {
	return h.dispatch(ctx, cmd, cmd.SessionID, catalog.FiltersCleared{})
}

func (h *Handler) SetSortKey(ctx context.Context, cmd SetSortKey) (catalog.State, error) {
	return h.dispatch(ctx, cmd, cmd.SessionID, catalog.SortKeySet{SortBy: catalog.SortKey(cmd.SortBy)})
}

// AddToComparison resolves the product among the session's loaded products
func (h *Handler) AddToComparison(ctx context.Context, cmd AddToComparison) (catalog.State, error) {
	if err := validateCommand(cmd); err != nil {
		return catalog.State{}, err
	}
	session, err := h.session(ctx, cmd.SessionID)
	if err != nil {
		return catalog.State{}, err
	}
	p, ok := catalog.FindProduct(session.State().Products, cmd.ProductID)
	if !ok {
		metrics.CommandErrors.WithLabelValues("product_not_found").Inc()
		return catalog.State{}, catalog.ErrProductNotFound
	}
	return h.commit(ctx, cmd.SessionID, catalog.ComparisonAdded{Product: p})
}

func (h *Handler) RemoveFromComparison(ctx context.Context, cmd RemoveFromComparison) (catalog.State, error) {
	return h.dispatch(ctx, cmd, cmd.SessionID, catalog.ComparisonRemoved{ProductID: cmd.ProductID})
}

func (h *Handler) ClearComparison(ctx context.Context, cmd ClearComparison) (catalog.State, error) {
	return h.dispatch(ctx, cmd, cmd.SessionID, catalog.ComparisonCleared{})
}

func (h *Handler) ToggleComparisonView(ctx context.Context, cmd ToggleComparisonView) (catalog.State, error) {
	return h.dispatch(ctx, cmd, cmd.SessionID, catalog.ComparisonViewToggled{})
}

func (h *Handler) dispatch(ctx context.Context, cmd any, sessionID string, intent catalog.Intent) (catalog.State, error) {
	if err := validateCommand(cmd); err != nil {
		metrics.CommandErrors.WithLabelValues("invalid").Inc()
		return catalog.State{}, err
	}
	if _, err := h.session(ctx, sessionID); err != nil {
		return catalog.State{}, err
	}
	return h.commit(ctx, sessionID, intent)
}

// commit appends the intent to the log and applies it. Commits to one
// session are serialized so log order equals apply order.
func (h *Handler) commit(ctx context.Context, sessionID string, intent catalog.Intent) (catalog.State, error) {
	lock := h.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	// the session may have ended while this commit waited for the lock
	if _, err := h.sessions.Get(sessionID); err != nil {
		metrics.CommandErrors.WithLabelValues("session_not_found").Inc()
		return catalog.State{}, err
	}

	event, err := h.eventStore.Append(ctx, sessionID, catalog.AggregateType, intent.EventType(), intent)
	if err != nil {
		metrics.CommandErrors.WithLabelValues("append").Inc()
		return catalog.State{}, fmt.Errorf("failed to append %s: %w", intent.EventType(), err)
	}

	state, err := h.projector.Apply(ctx, *event)
	if err != nil {
		metrics.CommandErrors.WithLabelValues("apply").Inc()
		return catalog.State{}, fmt.Errorf("failed to apply %s: %w", intent.EventType(), err)
	}
	metrics.IntentsTotal.WithLabelValues(intent.EventType()).Inc()
	return state, nil
}

// session returns the live session, rebuilding it from the log if needed
func (h *Handler) session(ctx context.Context, sessionID string) (*catalog.Store, error) {
	session, err := h.sessions.Get(sessionID)
	if err == nil {
		return session, nil
	}

	session, rerr := h.projector.Rebuild(ctx, sessionID)
	if rerr != nil {
		if !errors.Is(rerr, store.ErrSessionNotFound) {
			log.Printf("[Command] Failed to rebuild session %s: %v", sessionID, rerr)
		}
		metrics.CommandErrors.WithLabelValues("session_not_found").Inc()
		return nil, err
	}
	metrics.ActiveSessions.Inc()
	return session, nil
}

func (h *Handler) lockFor(sessionID string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()

	lock, ok := h.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[sessionID] = lock
	}
	return lock
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
