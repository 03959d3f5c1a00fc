package httpx

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ariefcatur/zander-storefront/internal/storefront"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

var (
	errProductNotFound   = fmt.Errorf("product %w", storefront.ErrNotFound)
	errPromotionNotFound = fmt.Errorf("promotion %w", storefront.ErrNotFound)
	errSetNotFound       = fmt.Errorf("set %w", storefront.ErrNotFound)
)

func boolParam(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}

func productQuery(r *http.Request) storefront.ProductQuery {
	q := r.URL.Query()
	return storefront.ProductQuery{
		Search:          q.Get("q"),
		Category:        q.Get("category"),
		Sort:            storefront.SortOrder(q.Get("sort")),
		FeaturedOnly:    boolParam(r, "featured"),
		PromotionalOnly: boolParam(r, "promo"),
	}
}

// ---- products ----

func (h *StoreHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := productQuery(r)
	q.ActiveOnly = true
	writeJSON(w, http.StatusOK, orEmpty(h.Catalog.SearchProducts(q)))
}

func (h *StoreHandler) adminListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(h.Catalog.SearchProducts(productQuery(r))))
}

func (h *StoreHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Catalog.Product(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, errProductNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type priceResp struct {
	ProductID      string          `json:"productId"`
	Price          decimal.Decimal `json:"price"`
	EffectivePrice decimal.Decimal `json:"effectivePrice"`
}

func (h *StoreHandler) getPrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.Catalog.Product(id)
	if !ok {
		h.fail(w, r, errProductNotFound)
		return
	}
	eff, _ := h.Catalog.EffectivePrice(id, h.now())
	writeJSON(w, http.StatusOK, priceResp{ProductID: id, Price: p.Price, EffectivePrice: eff})
}

func (h *StoreHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in storefront.ProductInput
	if err := decode(r, &in, false); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.Catalog.AddProduct(in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.emit(r, h.CatalogEvents, storefront.EventProductCreated, p.ID, storefront.ProductChanged(p))
	writeJSON(w, http.StatusCreated, p)
}

func (h *StoreHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var patch storefront.ProductPatch
	if err := decode(r, &patch, false); err != nil {
		h.fail(w, r, err)
		return
	}
	p, ok, err := h.Catalog.UpdateProduct(chi.URLParam(r, "id"), patch)
	switch {
	case !ok:
		h.fail(w, r, errProductNotFound)
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}
	h.emit(r, h.CatalogEvents, storefront.EventProductUpdated, p.ID, storefront.ProductChanged(p))
	writeJSON(w, http.StatusOK, p)
}

// deleteProduct always answers 200; the body says whether anything was removed.
func (h *StoreHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res := h.Catalog.DeleteProduct(id)
	if res.Found {
		h.emit(r, h.CatalogEvents, storefront.EventProductDeleted, id, storefront.ProductDeleted(id, res))
	}
	writeJSON(w, http.StatusOK, res)
}

// ---- promotions ----

func (h *StoreHandler) listPromotions(w http.ResponseWriter, r *http.Request) {
	promos := h.Catalog.Promotions()
	if boolParam(r, "running") {
		now := h.now()
		running := promos[:0]
		for _, p := range promos {
			if p.Running(now) {
				running = append(running, p)
			}
		}
		promos = running
	}
	writeJSON(w, http.StatusOK, orEmpty(promos))
}

func (h *StoreHandler) createPromotion(w http.ResponseWriter, r *http.Request) {
	var in storefront.PromotionInput
	if err := decode(r, &in, false); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.Catalog.AddPromotion(in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.emit(r, h.CatalogEvents, storefront.EventPromotionCreated, p.ID, storefront.PromotionChanged(p))
	writeJSON(w, http.StatusCreated, p)
}

func (h *StoreHandler) updatePromotion(w http.ResponseWriter, r *http.Request) {
	var patch storefront.PromotionPatch
	if err := decode(r, &patch, false); err != nil {
		h.fail(w, r, err)
		return
	}
	p, ok, err := h.Catalog.UpdatePromotion(chi.URLParam(r, "id"), patch)
	switch {
	case !ok:
		h.fail(w, r, errPromotionNotFound)
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}
	h.emit(r, h.CatalogEvents, storefront.EventPromotionUpdated, p.ID, storefront.PromotionChanged(p))
	writeJSON(w, http.StatusOK, p)
}

func (h *StoreHandler) deletePromotion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.Catalog.DeletePromotion(id) {
		h.emit(r, h.CatalogEvents, storefront.EventPromotionDeleted, id, storefront.DeletedPayload{ID: id})
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- sets ----

func setQuery(r *http.Request) storefront.SetQuery {
	q := r.URL.Query()
	return storefront.SetQuery{Search: q.Get("q"), Sort: storefront.SortOrder(q.Get("sort"))}
}

func (h *StoreHandler) listSets(w http.ResponseWriter, r *http.Request) {
	q := setQuery(r)
	q.ActiveOnly = true
	writeJSON(w, http.StatusOK, orEmpty(h.Catalog.SearchSets(q)))
}

func (h *StoreHandler) adminListSets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(h.Catalog.SearchSets(setQuery(r))))
}

func (h *StoreHandler) getSet(w http.ResponseWriter, r *http.Request) {
	s, ok := h.Catalog.Set(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, errSetNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

type quoteReq struct {
	Products []string        `json:"products"`
	Discount decimal.Decimal `json:"discount"`
}

func (h *StoreHandler) quoteSet(w http.ResponseWriter, r *http.Request) {
	var req quoteReq
	if err := decode(r, &req, false); err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.Catalog.QuoteSet(req.Products, req.Discount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *StoreHandler) createSet(w http.ResponseWriter, r *http.Request) {
	var in storefront.SetInput
	if err := decode(r, &in, false); err != nil {
		h.fail(w, r, err)
		return
	}
	s, err := h.Catalog.AddSet(in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.emit(r, h.CatalogEvents, storefront.EventSetCreated, s.ID, storefront.SetChanged(s))
	writeJSON(w, http.StatusCreated, s)
}

func (h *StoreHandler) updateSet(w http.ResponseWriter, r *http.Request) {
	var patch storefront.SetPatch
	if err := decode(r, &patch, false); err != nil {
		h.fail(w, r, err)
		return
	}
	s, ok, err := h.Catalog.UpdateSet(chi.URLParam(r, "id"), patch)
	switch {
	case !ok:
		h.fail(w, r, errSetNotFound)
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}
	h.emit(r, h.CatalogEvents, storefront.EventSetUpdated, s.ID, storefront.SetChanged(s))
	writeJSON(w, http.StatusOK, s)
}

func (h *StoreHandler) deleteSet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.Catalog.DeleteSet(id) {
		h.emit(r, h.CatalogEvents, storefront.EventSetDeleted, id, storefront.DeletedPayload{ID: id})
	}
	w.WriteHeader(http.StatusNoContent)
}
