package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

// Catalog is a FoodCatalog held in memory, ordered by item ID
type Catalog struct {
	mu    sync.RWMutex
	items []food.Item
}

// NewCatalog creates a catalog from items in any order
func NewCatalog(items ...food.Item) *Catalog {
	c := &Catalog{items: append([]food.Item(nil), items...)}
	sort.SliceStable(c.items, func(i, j int) bool { return c.items[i].ID < c.items[j].ID })
	return c
}

var _ outbound.FoodCatalog = (*Catalog)(nil)

// Query returns every item matching the filter
func (c *Catalog) Query(ctx context.Context, filter food.Filter) ([]food.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]food.Item, 0, len(c.items))
	for _, item := range c.items {
		if filter.Matches(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// All returns the whole catalog
func (c *Catalog) All(ctx context.Context) ([]food.Item, error) {
	return c.Query(ctx, food.Filter{})
}

// FindByID returns one item or outbound.ErrNotFound
func (c *Catalog) FindByID(ctx context.Context, id int64) (*food.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.index(id); i >= 0 {
		item := c.items[i]
		return &item, nil
	}
	return nil, outbound.ErrNotFound
}

// FindByIDs returns the items that exist among ids
func (c *Catalog) FindByIDs(ctx context.Context, ids []int64) (map[int64]food.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[int64]food.Item, len(ids))
	for _, id := range ids {
		if i := c.index(id); i >= 0 {
			out[id] = c.items[i]
		}
	}
	return out, nil
}

// Autocomplete matches a case-insensitive prefix of name or local name
func (c *Catalog) Autocomplete(ctx context.Context, prefix string, limit int) ([]food.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := strings.ToLower(prefix)
	out := make([]food.Item, 0, limit)
	for _, item := range c.items {
		if len(out) == limit {
			break
		}
		if strings.HasPrefix(strings.ToLower(item.Name), p) ||
			(item.LocalName != "" && strings.HasPrefix(strings.ToLower(item.LocalName), p)) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Cheapest lists affordable items priced at or below maxPrice, cheapest first
func (c *Catalog) Cheapest(ctx context.Context, maxPrice float64, limit int) ([]food.Item, error) {
	items, _ := c.Query(ctx, food.Filter{AffordableOnly: true, MaxPrice: &maxPrice})
	sort.SliceStable(items, func(i, j int) bool { return *items[i].Price < *items[j].Price })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// UpdatePrice sets an item's current price
func (c *Catalog) UpdatePrice(ctx context.Context, id int64, price float64, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return outbound.ErrNotFound
	}
	c.items[i].Price = &price
	c.items[i].PriceUpdatedAt = &at
	return nil
}

func (c *Catalog) index(id int64) int {
	i := sort.Search(len(c.items), func(i int) bool { return c.items[i].ID >= id })
	if i < len(c.items) && c.items[i].ID == id {
		return i
	}
	return -1
}
