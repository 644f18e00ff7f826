package session

import (
	"sync"

	"github.com/affanstats/Product-Presenter/internal/domain"
)

// Context holds the per-session state resolved from participant
// metadata. It is populated incrementally: metadata may arrive before
// or after connect, and a metadata-changed signal re-triggers
// resolution. Overlapping resolutions are not sequenced; the last write
// to complete wins.
type Context struct {
	mu        sync.Mutex
	userName  string
	userEmail string
	product   *domain.ProductRecord
}

// SetUser overwrites the user fields with the latest metadata values,
// including clearing them when the new metadata omits a key.
func (c *Context) SetUser(name, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userName = name
	c.userEmail = email
}

// SetProduct overwrites the resolved product record.
func (c *Context) SetProduct(p *domain.ProductRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.product = p
}

// Snapshot returns the current user fields and product record.
func (c *Context) Snapshot() (userName, userEmail string, product *domain.ProductRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userName, c.userEmail, c.product
}
