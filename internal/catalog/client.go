package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/affanstats/Product-Presenter/internal/domain"
)

// Client fetches product records from the catalog API over HTTP.
//
// The API reports misses in-band: a 200 response whose body is
// {"error": "..."} rather than a product record. Client maps those
// payloads back onto the service sentinels so callers handle local and
// remote catalogs the same way.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a catalog API client. If httpClient is nil,
// http.DefaultClient is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// errEnvelope is the in-band miss payload.
type errEnvelope struct {
	Error string `json:"error"`
}

// Get fetches the full record for a product id.
func (c *Client) Get(ctx context.Context, productID string) (*domain.ProductRecord, error) {
	reqURL := c.baseURL + "/product/" + url.PathEscape(productID)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var envelope errEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return nil, mapRemoteError(envelope.Error)
	}

	var product domain.ProductRecord
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("decode product response: %w", err)
	}
	return &product, nil
}

// List fetches the id+name projection of all products.
func (c *Client) List(ctx context.Context) ([]domain.ProductSummary, error) {
	body, err := c.get(ctx, c.baseURL+"/product")
	if err != nil {
		return nil, err
	}

	var envelope errEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return nil, mapRemoteError(envelope.Error)
	}

	var summaries []domain.ProductSummary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, fmt.Errorf("decode product list response: %w", err)
	}
	return summaries, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func mapRemoteError(msg string) error {
	if strings.Contains(strings.ToLower(msg), "data not found") {
		return ErrDataNotFound
	}
	return ErrProductNotFound
}
