package storefront

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/ariefcatur/zander-storefront/internal/blob"
	"github.com/ariefcatur/zander-storefront/internal/logx"
	"go.uber.org/zap"
)

// Favorites is a session's wishlist: product snapshots with set semantics on the id.
type Favorites struct {
	mu    sync.Mutex
	items []Product
	store blob.Store
	key   string
	log   *zap.Logger
}

func NewFavorites(ctx context.Context, store blob.Store, key string, log *zap.Logger) (*Favorites, error) {
	f := &Favorites{store: store, key: key, log: logx.OrNop(log)}
	items, err := loadJSON[[]Product](ctx, store, key, f.log)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	f.items = items
	return f, nil
}

// Toggle removes p when present, adds a snapshot otherwise. added reports the resulting state.
func (f *Favorites) Toggle(ctx context.Context, p Product) (added bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.index(p.ID) >= 0 {
		return false, f.remove(ctx, p.ID)
	}
	return true, f.add(ctx, p)
}

// Add is a no-op when the product is already a favorite.
func (f *Favorites) Add(ctx context.Context, p Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.index(p.ID) >= 0 {
		return nil
	}
	return f.add(ctx, p)
}

func (f *Favorites) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.index(id) < 0 {
		return nil
	}
	return f.remove(ctx, id)
}

func (f *Favorites) IsFavorite(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index(id) >= 0
}

func (f *Favorites) Items() []Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Product, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, p.Clone())
	}
	return out
}

func (f *Favorites) add(ctx context.Context, p Product) error {
	next := append(slices.Clone(f.items), p.Clone())
	return f.save(ctx, next)
}

func (f *Favorites) remove(ctx context.Context, id string) error {
	next := slices.DeleteFunc(slices.Clone(f.items), func(p Product) bool { return p.ID == id })
	return f.save(ctx, next)
}

func (f *Favorites) save(ctx context.Context, next []Product) error {
	if err := saveJSON(ctx, f.store, f.key, next); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	f.items = next
	return nil
}

func (f *Favorites) index(id string) int {
	return slices.IndexFunc(f.items, func(p Product) bool { return p.ID == id })
}
