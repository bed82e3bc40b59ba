package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/example/catalog-browser/internal/api/middleware"
	"github.com/example/catalog-browser/internal/command"
	"github.com/example/catalog-browser/internal/domain/catalog"
	"github.com/example/catalog-browser/internal/infrastructure/store"
	"github.com/example/catalog-browser/internal/query"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

// Catalog Handlers

func (h *Handlers) GetCatalog(w http.ResponseWriter, r *http.Request) {
	view, err := h.queryHandler.GetCatalog(middleware.GetSessionID(r.Context()))
	if err != nil {
		respondCommandError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	cards, err := h.queryHandler.GetVisibleProducts(middleware.GetSessionID(r.Context()))
	if err != nil {
		respondCommandError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

func (h *Handlers) GetFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.queryHandler.GetFacets(middleware.GetSessionID(r.Context()))
	if err != nil {
		respondCommandError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, facets)
}

func (h *Handlers) SearchBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.queryHandler.SearchBrands(middleware.GetSessionID(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		respondCommandError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, brands)
}

func (h *Handlers) LoadProducts(w http.ResponseWriter, r *http.Request) {
	state, err := h.cmdHandler.LoadProducts(r.Context(), command.LoadProducts{SessionID: middleware.GetSessionID(r.Context())})
	h.respondState(w, r, state, err)
}

func (h *Handlers) ResetSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.cmdHandler.ResetSession(r.Context(), command.ResetSession{SessionID: middleware.GetSessionID(r.Context())})
	h.respondState(w, r, state, err)
}

// Filter Handlers

func (h *Handlers) SetCategoryFilter(w http.ResponseWriter, r *http.Request) {
	var cmd command.SetCategoryFilter
	if !decodeBody(w, r, &cmd) {
		return
	}
	cmd.SessionID = middleware.GetSessionID(r.Context())
	state, err := h.cmdHandler.SetCategoryFilter(r.Context(), cmd)
	h.respondState(w, r, state, err)
}

func (h *Handlers) SetBrandFilter(w http.ResponseWriter, r *http.Request) {
	var cmd command.SetBrandFilter
	if !decodeBody(w, r, &cmd) {
		return
	}
	cmd.SessionID = middleware.GetSessionID(r.Context())
	state, err := h.cmdHandler.SetBrandFilter(r.Context(), cmd)
	h.respondState(w, r, state, err)
}

func (h *Handlers) SetPriceFilter(w http.ResponseWriter, r *http.Request) {
	var cmd command.SetPriceFilter
	if !decodeBody(w, r, &cmd) {
		return
	}
	cmd.SessionID = middleware.GetSessionID(r.Context())
	state, err := h.cmdHandler.SetPriceFilter(r.Context(), cmd)
	h.respondState(w, r, state, err)
}

func (h *Handlers) SetInStockOnly(w http.ResponseWriter, r *http.Request) {
	var cmd command.SetInStockOnly
	if !decodeBody(w, r, &cmd) {
		return
	}
	cmd.SessionID = middleware.GetSessionID(r.Context())
	state, err := h.cmdHandler.SetInStockOnly(r.Context(), cmd)
	h.respondState(w, r, state, err)
}

func (h *Handlers) ClearFilters(w http.ResponseWriter, r *http.Request) {
	state, err := h.cmdHandler.ClearFilters(r.Context(), command.ClearFilters{SessionID: middleware.GetSessionID(r.Context())})
	h.respondState(w, r, state, err)
}

// Sort Handlers

func (h *Handlers) SetSortKey(w http.ResponseWriter, r *http.Request) {
	var cmd command.SetSortKey
	if !decodeBody(w, r, &cmd) {
		return
	}
	cmd.SessionID = middleware.GetSessionID(r.Context())
	state, err := h.cmdHandler.SetSortKey(r.Context(), cmd)
	h.respondState(w, r, state, err)
}

// Comparison Handlers

func (h *Handlers) GetComparison(w http.ResponseWriter, r *http.Request) {
	view, err := h.queryHandler.GetComparison(middleware.GetSessionID(r.Context()))
	if err != nil {
		respondCommandError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handlers) AddToComparison(w http.ResponseWriter, r *http.Request) {
	var cmd command.AddToComparison
	if !decodeBody(w, r, &cmd) {
		return
	}
	cmd.SessionID = middleware.GetSessionID(r.Context())
	state, err := h.cmdHandler.AddToComparison(r.Context(), cmd)
	h.respondState(w, r, state, err)
}

func (h *Handlers) RemoveFromComparison(w http.ResponseWriter, r *http.Request) {
	cmd := command.RemoveFromComparison{
		SessionID: middleware.GetSessionID(r.Context()),
		ProductID: extractPathParam(r.URL.Path, "/catalog/comparison/"),
	}
	state, err := h.cmdHandler.RemoveFromComparison(r.Context(), cmd)
	h.respondState(w, r, state, err)
}

func (h *Handlers) ClearComparison(w http.ResponseWriter, r *http.Request) {
	state, err := h.cmdHandler.ClearComparison(r.Context(), command.ClearComparison{SessionID: middleware.GetSessionID(r.Context())})
	h.respondState(w, r, state, err)
}

func (h *Handlers) ToggleComparisonView(w http.ResponseWriter, r *http.Request) {
	state, err := h.cmdHandler.ToggleComparisonView(r.Context(), command.ToggleComparisonView{SessionID: middleware.GetSessionID(r.Context())})
	h.respondState(w, r, state, err)
}

// respondState renders the committed state as the catalog read model
func (h *Handlers) respondState(w http.ResponseWriter, r *http.Request, state catalog.State, err error) {
	if err != nil {
		respondCommandError(w, err)
		return
	}
	view := query.BuildCatalogView(state)
	view.SessionID = middleware.GetSessionID(r.Context())
	respondJSON(w, http.StatusOK, view)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func respondCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, command.ErrInvalidCommand):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrSessionNotFound):
		respondJSONError(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrProductNotFound):
		respondJSONError(w, "Product not found", http.StatusNotFound)
	default:
		log.Printf("[API] Internal error: %v", err)
		respondJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("[API] Failed to encode error response: %v", err)
	}
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}
