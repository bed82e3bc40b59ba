package api

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/catalog-browser/internal/api/middleware"
	"github.com/example/catalog-browser/internal/auth"
	"github.com/example/catalog-browser/internal/metrics"
)

type RouterConfig struct {
	Handlers        *Handlers
	SessionHandlers *SessionHandlers
	StreamHandler   *StreamHandler
	JWTService      *auth.JWTService
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	requireSession := middleware.SessionMiddleware(cfg.JWTService)
	h := cfg.Handlers

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Sessions
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.SessionHandlers.CreateSession(w, r)
		case http.MethodDelete:
			requireSession(http.HandlerFunc(cfg.SessionHandlers.EndSession)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Catalog (all routes require a session token)
	catalog := http.NewServeMux()

	catalog.HandleFunc("/catalog", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetCatalog(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	catalog.HandleFunc("/catalog/products", methodOnly(http.MethodGet, h.GetProducts))
	catalog.HandleFunc("/catalog/facets", methodOnly(http.MethodGet, h.GetFacets))
	catalog.HandleFunc("/catalog/brands", methodOnly(http.MethodGet, h.SearchBrands))
	catalog.HandleFunc("/catalog/load", methodOnly(http.MethodPost, h.LoadProducts))
	catalog.HandleFunc("/catalog/reset", methodOnly(http.MethodPost, h.ResetSession))
	catalog.HandleFunc("/catalog/sort", methodOnly(http.MethodPut, h.SetSortKey))

	// Filters
	catalog.HandleFunc("/catalog/filters", methodOnly(http.MethodDelete, h.ClearFilters))
	catalog.HandleFunc("/catalog/filters/categories", methodOnly(http.MethodPut, h.SetCategoryFilter))
	catalog.HandleFunc("/catalog/filters/brands", methodOnly(http.MethodPut, h.SetBrandFilter))
	catalog.HandleFunc("/catalog/filters/price", methodOnly(http.MethodPut, h.SetPriceFilter))
	catalog.HandleFunc("/catalog/filters/in-stock", methodOnly(http.MethodPut, h.SetInStockOnly))

	// Comparison
	catalog.HandleFunc("/catalog/comparison", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetComparison(w, r)
		case http.MethodPost:
			h.AddToComparison(w, r)
		case http.MethodDelete:
			h.ClearComparison(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	catalog.HandleFunc("/catalog/comparison/", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case path == "/catalog/comparison/toggle" && r.Method == http.MethodPost:
			h.ToggleComparisonView(w, r)
		case path != "/catalog/comparison/toggle" && r.Method == http.MethodDelete:
			h.RemoveFromComparison(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	if cfg.StreamHandler != nil {
		catalog.HandleFunc("/catalog/stream", methodOnly(http.MethodGet, cfg.StreamHandler.Stream))
	}

	mux.Handle("/catalog", requireSession(catalog))
	mux.Handle("/catalog/", requireSession(catalog))

	return withLogging(mux)
}

func methodOnly(method string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		fn(w, r)
	}
}

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack lets the stream handler upgrade through the recorder
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if r.URL.Path != "/metrics" && r.URL.Path != "/healthz" {
			log.Printf("[API] %s %s %d", r.Method, r.URL.Path, rec.status)
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, routeLabel(r.URL.Path), strconv.Itoa(rec.status)).Inc()
	})
}

func routeLabel(path string) string {
	if rest, ok := strings.CutPrefix(path, "/catalog/comparison/"); ok && rest != "toggle" {
		return "/catalog/comparison/{id}"
	}
	return path
}
