package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/affanstats/Product-Presenter/internal/catalog"
	"github.com/go-chi/chi/v5"
)

// Error payloads are returned in-band with status 200. The agent worker
// and the frontend both detect misses through the "error" key, not the
// status code.
const (
	msgDataNotFound    = "Product data not found"
	msgProductNotFound = "No products found!"
)

// CatalogHandler serves product lookup endpoints.
type CatalogHandler struct {
	svc *catalog.Service
}

// NewCatalogHandler creates a catalog handler backed by the given service.
func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// RegisterRoutes registers catalog routes.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/product", h.ListProducts)
	r.Get("/product/{productID}", h.GetProduct)
}

// ListProducts returns the id+name projection of all products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.List(r.Context())
	if err != nil {
		if errors.Is(err, catalog.ErrDataNotFound) {
			JSON(w, http.StatusOK, map[string]string{"error": msgDataNotFound})
			return
		}
		slog.Error("Failed to list products", "error", err)
		Error(w, http.StatusInternalServerError, "failed to read product data")
		return
	}

	JSON(w, http.StatusOK, summaries)
}

// GetProduct returns the full record for one product id.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := h.svc.Get(r.Context(), productID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrDataNotFound):
			JSON(w, http.StatusOK, map[string]string{"error": msgDataNotFound})
		case errors.Is(err, catalog.ErrProductNotFound):
			JSON(w, http.StatusOK, map[string]string{"error": msgProductNotFound})
		default:
			slog.Error("Failed to look up product", "error", err, "product_id", productID)
			Error(w, http.StatusInternalServerError, "failed to read product data")
		}
		return
	}

	JSON(w, http.StatusOK, product)
}
