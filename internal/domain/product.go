// Package domain contains core domain types for the presenter application.
package domain

import "encoding/json"

// ProductRecord is one product in the catalog. Records are immutable once
// loaded; the catalog file is their source of truth.
type ProductRecord struct {
	ProductID   string         `json:"productId"`
	ProductName string         `json:"productName"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price,omitempty"`
	Currency    string         `json:"currency,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

// DetailsJSON returns the nested detail fields as a JSON string, or ""
// when there are none. Used when injecting product context into prompts.
func (p *ProductRecord) DetailsJSON() string {
	if len(p.Details) == 0 {
		return ""
	}
	data, err := json.Marshal(p.Details)
	if err != nil {
		return ""
	}
	return string(data)
}

// ProductSummary is the id+name projection returned by the list endpoint.
type ProductSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WaitlistEntry is one signup in the shared waitlist file. Entries are
// append-only; no deduplication or validation is applied.
type WaitlistEntry struct {
	Email     string `json:"email"`
	ProductID string `json:"product_id"`
}
