// Package catalog provides read-only product lookups over a static JSON file.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/affanstats/Product-Presenter/internal/domain"
)

var (
	// ErrDataNotFound indicates the backing catalog file is missing.
	ErrDataNotFound = errors.New("product data not found")
	// ErrProductNotFound indicates no record matched the requested id.
	ErrProductNotFound = errors.New("no products found")
)

// Service reads product records from a JSON file. Every call re-reads
// and re-parses the file; there is no caching and no write path, so the
// file on disk stays the single source of truth.
type Service struct {
	path string
}

// NewService creates a catalog service backed by the given file.
func NewService(path string) *Service {
	return &Service{path: path}
}

// List returns the id+name projection of every product in the catalog.
func (s *Service) List(ctx context.Context) ([]domain.ProductSummary, error) {
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ProductSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, domain.ProductSummary{
			ID:   p.ProductID,
			Name: p.ProductName,
		})
	}
	return summaries, nil
}

// Get returns the full record for the given product id. The scan is
// linear and returns the first match.
func (s *Service) Get(ctx context.Context, productID string) (*domain.ProductRecord, error) {
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ProductID == productID {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

// utf8BOM is stripped before decoding; catalog files exported from
// Windows tooling tend to carry it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (s *Service) load(ctx context.Context) ([]domain.ProductRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrDataNotFound
		}
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)

	var products []domain.ProductRecord
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return products, nil
}
