package storefront

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/ariefcatur/zander-storefront/internal/blob"
	"github.com/ariefcatur/zander-storefront/internal/logx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cart is one session's basket. Line items are keyed by (product id, size, color) and hold
// product snapshots, so later catalog edits never reach them. Every mutation rewrites the
// whole ledger under key.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
	store blob.Store
	key   string
	log   *zap.Logger
}

// NewCart loads the ledger stored under key. Missing or malformed data yields an empty cart;
// only a failing store is reported.
func NewCart(ctx context.Context, store blob.Store, key string, log *zap.Logger) (*Cart, error) {
	c := &Cart{store: store, key: key, log: logx.OrNop(log)}
	items, err := loadJSON[[]CartItem](ctx, store, key, c.log)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	c.items = slices.DeleteFunc(items, func(it CartItem) bool { return it.Quantity <= 0 })
	return c, nil
}

// Add merges quantity into the matching line or appends a new snapshot line.
// Stock is not checked.
func (c *Cart) Add(ctx context.Context, p Product, quantity int, size, color string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.copyItems()
	if i := next.index(p.ID, size, color); i >= 0 {
		next[i].Quantity += quantity
	} else {
		next = append(next, CartItem{
			Product:       p.Clone(),
			Quantity:      quantity,
			SelectedSize:  size,
			SelectedColor: color,
		})
	}
	return c.save(ctx, next)
}

func (c *Cart) Remove(ctx context.Context, id, size, color string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.copyItems()
	i := next.index(id, size, color)
	if i < 0 {
		return nil
	}
	return c.save(ctx, slices.Delete(next, i, i+1))
}

// UpdateQuantity sets the quantity of a line; quantity <= 0 removes it.
func (c *Cart) UpdateQuantity(ctx context.Context, id string, quantity int, size, color string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.copyItems()
	i := next.index(id, size, color)
	if i < 0 {
		return nil
	}
	if quantity <= 0 {
		return c.save(ctx, slices.Delete(next, i, i+1))
	}
	next[i].Quantity = quantity
	return c.save(ctx, next)
}

func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, lines{})
}

func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyItems()
}

func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// TotalPrice sums snapshot price × quantity.
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// save persists first so a failed write leaves memory and storage in agreement.
func (c *Cart) save(ctx context.Context, next lines) error {
	if err := saveJSON(ctx, c.store, c.key, next); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	c.items = next
	return nil
}

type lines []CartItem

func (l lines) index(id, size, color string) int {
	return slices.IndexFunc(l, func(it CartItem) bool { return it.matches(id, size, color) })
}

func (c *Cart) copyItems() lines {
	out := make(lines, 0, len(c.items))
	for _, it := range c.items {
		it.Product = it.Product.Clone()
		out = append(out, it)
	}
	return out
}
