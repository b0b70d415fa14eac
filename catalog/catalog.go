// Package catalog caches the sellable product list. The cache is a single
// shared, replace-wholesale resource: every refresh swaps the full slice,
// there is no row-level mutation. Stock shown here is only as fresh as the
// last refresh; the backend stays the authority.
package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"licorera-pos/model"
)

// Fetcher is the backend read the cache rides on; implemented by
// client.Client.
type Fetcher interface {
	FetchProducts(ctx context.Context, q string) ([]model.Product, error)
}

// Store persists the last good catalog so a restarted terminal can keep
// selling read-only while the backend is down.
type Store interface {
	Save(ctx context.Context, products []model.Product) error
	Load(ctx context.Context) ([]model.Product, error)
}

type Cache struct {
	fetcher Fetcher
	store   Store
	log     *zap.Logger

	mu        sync.RWMutex
	products  []model.Product
	fetchedAt time.Time
}

type Option func(*Cache)

// WithStore snapshots every successful refresh into s.
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) { c.log = l }
}

func New(f Fetcher, opts ...Option) *Cache {
	c := &Cache{fetcher: f, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Refresh replaces the whole cached list with a fresh fetch. On failure the
// previous catalog is kept and the error returned; the cart and pricing keep
// operating on stale data.
func (c *Cache) Refresh(ctx context.Context) error {
	products, err := c.fetcher.FetchProducts(ctx, "")
	if err != nil {
		c.log.Warn("catalog refresh failed", zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.products = products
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	c.log.Debug("catalog refreshed", zap.Int("products", len(products)))

	if c.store != nil {
		if err := c.store.Save(ctx, products); err != nil {
			// snapshot is best-effort
			c.log.Warn("catalog snapshot save failed", zap.Error(err))
		}
	}
	return nil
}

// RestoreFromStore fills an empty cache from the last snapshot. A cache that
// already holds products is left alone.
func (c *Cache) RestoreFromStore(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.products) > 0 {
		return nil
	}
	products, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	c.products = products
	return nil
}

// Products returns a copy of the cached catalog.
func (c *Cache) Products() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by id.
func (c *Cache) Get(id int) (model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// Search filters the cached catalog by a case-insensitive name substring,
// the way the POS search box filters locally. An empty query returns
// everything.
func (c *Cache) Search(q string) []model.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return c.Products()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// FetchedAt is the time of the last successful refresh; zero before the
// first one.
func (c *Cache) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}
