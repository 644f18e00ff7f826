package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/affanstats/Product-Presenter/internal/catalog"
)

const sampleCatalog = `[
  {"productId": "P1", "productName": "Widget", "description": "A fine widget", "price": 10, "currency": "USD"}
]`

func newCatalogRouter(t *testing.T, catalogContent string) *chi.Mux {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.json")
	if catalogContent != "" {
		if err := os.WriteFile(path, []byte(catalogContent), 0o644); err != nil {
			t.Fatalf("write catalog file: %v", err)
		}
	}

	r := chi.NewRouter()
	NewCatalogHandler(catalog.NewService(path)).RegisterRoutes(r)
	return r
}

func TestListProductsProjection(t *testing.T) {
	r := newCatalogRouter(t, sampleCatalog)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 product, got %d", len(got))
	}
	if got[0]["id"] != "P1" || got[0]["name"] != "Widget" {
		t.Fatalf("unexpected projection: %v", got[0])
	}
	for _, forbidden := range []string{"description", "price", "currency", "details"} {
		if _, present := got[0][forbidden]; present {
			t.Fatalf("projection leaked field %q", forbidden)
		}
	}
}

func TestGetProductReturnsFullRecord(t *testing.T) {
	r := newCatalogRouter(t, sampleCatalog)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product/P1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got map[string]any
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["productName"] != "Widget" || got["currency"] != "USD" {
		t.Fatalf("unexpected record: %v", got)
	}
}

func TestGetProductMissReturnsInBandError(t *testing.T) {
	r := newCatalogRouter(t, sampleCatalog)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product/P999", nil))

	// Misses keep status 200; the error travels in the payload.
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["error"] != "No products found!" {
		t.Fatalf("unexpected error payload: %v", got)
	}
}

func TestMissingCatalogFileReturnsDataNotFound(t *testing.T) {
	r := newCatalogRouter(t, "")

	for _, target := range []string{"/product", "/product/P1"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", target, w.Code)
		}
		var got map[string]string
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("%s: decode response: %v", target, err)
		}
		if got["error"] != "Product data not found" {
			t.Fatalf("%s: unexpected payload: %v", target, got)
		}
	}
}
