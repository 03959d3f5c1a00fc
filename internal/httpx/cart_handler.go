package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/zander-storefront/internal/blob"
	"github.com/ariefcatur/zander-storefront/internal/storefront"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type cartView struct {
	Items      []storefront.CartItem `json:"items"`
	TotalItems int                   `json:"totalItems"`
	TotalPrice decimal.Decimal       `json:"totalPrice"`
}

func viewCart(c *storefront.Cart) cartView {
	return cartView{Items: orEmpty(c.Items()), TotalItems: c.TotalItems(), TotalPrice: c.TotalPrice()}
}

type cartItemReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// addItemReq tells a missing quantity apart from an explicit zero.
type addItemReq struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

func (h *StoreHandler) openCart(ctx context.Context) (*storefront.Cart, error) {
	return storefront.NewCart(ctx, h.Store, blob.CartKey(SessionID(ctx)), h.Log)
}

func (h *StoreHandler) openFavorites(ctx context.Context) (*storefront.Favorites, error) {
	return storefront.NewFavorites(ctx, h.Store, blob.FavoritesKey(SessionID(ctx)), h.Log)
}

func (h *StoreHandler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	c, err := h.openCart(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewCart(c))
}

func (h *StoreHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	c, err := h.openCart(ctx)
	if err == nil {
		err = c.Clear(ctx)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewCart(c))
}

// addCartItem snapshots the current catalog product. A missing quantity adds one; size and color
// may be left unset (product card quick add) but must be offered when given.
func (h *StoreHandler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := decode(r, &req, false); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Quantity == nil {
		one := 1
		req.Quantity = &one
	}
	p, err := h.purchasable(req.ProductID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := p.CheckOffered(req.Size, req.Color); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	c, err := h.openCart(ctx)
	if err == nil {
		err = c.Add(ctx, p, *req.Quantity, req.Size, req.Color)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewCart(c))
}

// updateCartItem sets a line's quantity; zero or less removes the line.
func (h *StoreHandler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := decode(r, &req, false); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	c, err := h.openCart(ctx)
	if err == nil {
		err = c.UpdateQuantity(ctx, req.ProductID, req.Quantity, req.Size, req.Color)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewCart(c))
}

// removeCartItem takes the line key from the query: ?productId=&size=&color=
func (h *StoreHandler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	c, err := h.openCart(ctx)
	if err == nil {
		err = c.Remove(ctx, q.Get("productId"), q.Get("size"), q.Get("color"))
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewCart(c))
}

// ---- favorites ----

func (h *StoreHandler) listFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	f, err := h.openFavorites(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f.Items())
}

type toggleResp struct {
	ProductID string `json:"productId"`
	Favorite  bool   `json:"favorite"`
}

// toggleFavorite removes an existing favorite even when the product has left the catalog.
func (h *StoreHandler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	f, err := h.openFavorites(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if f.IsFavorite(id) {
		if err := f.Remove(ctx, id); err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toggleResp{ProductID: id, Favorite: false})
		return
	}

	p, ok := h.Catalog.Product(id)
	if !ok {
		h.fail(w, r, errProductNotFound)
		return
	}
	added, err := f.Toggle(ctx, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResp{ProductID: id, Favorite: added})
}
