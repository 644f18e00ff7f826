package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/product", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": "P1", "name": "Widget"}]`))
	})
	mux.HandleFunc("/product/P1", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"productId": "P1", "productName": "Widget", "price": 10, "currency": "USD"}`))
	})
	mux.HandleFunc("/product/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": "No products found!"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientGetParsesRecord(t *testing.T) {
	srv := newTestAPI(t)
	client := NewClient(srv.URL, srv.Client())

	product, err := client.Get(context.Background(), "P1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if product.ProductName != "Widget" || product.Price != 10 {
		t.Fatalf("unexpected record: %+v", product)
	}
}

func TestClientGetMapsInBandMissToNotFound(t *testing.T) {
	srv := newTestAPI(t)
	client := NewClient(srv.URL, srv.Client())

	_, err := client.Get(context.Background(), "P999")
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestClientGetMapsDataNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": "Product data not found"}`))
	}))
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, srv.Client())

	_, err := client.Get(context.Background(), "P1")
	if !errors.Is(err, ErrDataNotFound) {
		t.Fatalf("expected ErrDataNotFound, got %v", err)
	}
}

func TestClientListParsesSummaries(t *testing.T) {
	srv := newTestAPI(t)
	client := NewClient(srv.URL, srv.Client())

	summaries, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "P1" {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
}

func TestClientReportsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, srv.Client())

	if _, err := client.Get(context.Background(), "P1"); err == nil {
		t.Fatal("expected error on 502 response")
	}
}
