package httpx

import (
	"net/http"
	"time"

	"github.com/ariefcatur/zander-storefront/internal/blob"
	"github.com/ariefcatur/zander-storefront/internal/logx"
	"github.com/ariefcatur/zander-storefront/internal/storefront"
	"github.com/ariefcatur/zander-storefront/internal/whatsapp"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const storeTimeout = 3 * time.Second

type StoreHandler struct {
	Catalog  *storefront.Catalog
	Store    blob.Store // session ledgers and reviews
	WhatsApp *whatsapp.Formatter

	CatalogEvents  Publisher // nil disables
	CheckoutEvents Publisher // nil disables
	Limiter        *RateLimiter

	Service  string
	Location *time.Location // promotion validity is judged in the store's timezone
	Log      *zap.Logger
}

func (h *StoreHandler) Register(r chi.Router) {
	limit := func(next http.Handler) http.Handler { return next }
	if h.Limiter != nil {
		limit = h.Limiter.Limit
	}

	r.Group(func(r chi.Router) {
		r.Use(Session)

		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Get("/products/{id}/price", h.getPrice)
		r.Get("/products/{id}/reviews", h.listReviews)
		r.Post("/products/{id}/reviews", h.addReview)

		r.Get("/promotions", h.listPromotions)
		r.Get("/sets", h.listSets)
		r.Get("/sets/{id}", h.getSet)
		r.Post("/sets/quote", h.quoteSet)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/products", h.adminListProducts)
			r.Post("/products", h.createProduct)
			r.Patch("/products/{id}", h.updateProduct)
			r.Delete("/products/{id}", h.deleteProduct)
			r.Post("/promotions", h.createPromotion)
			r.Patch("/promotions/{id}", h.updatePromotion)
			r.Delete("/promotions/{id}", h.deletePromotion)
			r.Get("/sets", h.adminListSets)
			r.Post("/sets", h.createSet)
			r.Patch("/sets/{id}", h.updateSet)
			r.Delete("/sets/{id}", h.deleteSet)
		})

		r.Get("/cart", h.getCart)
		r.Delete("/cart", h.clearCart)
		r.Post("/cart/items", h.addCartItem)
		r.Patch("/cart/items", h.updateCartItem)
		r.Delete("/cart/items", h.removeCartItem)

		r.Get("/favorites", h.listFavorites)
		r.Post("/favorites/{id}/toggle", h.toggleFavorite)

		r.With(limit).Post("/checkout", h.checkout)
		r.With(limit).Post("/checkout/direct", h.checkoutDirect)
	})
}

func (h *StoreHandler) now() time.Time {
	if h.Location != nil {
		return time.Now().In(h.Location)
	}
	return time.Now()
}

func (h *StoreHandler) logger() *zap.Logger { return logx.OrNop(h.Log) }

// purchasable returns an active catalog product or ErrNotFound.
func (h *StoreHandler) purchasable(id string) (storefront.Product, error) {
	p, ok := h.Catalog.Product(id)
	if !ok || p.Status != storefront.ProductActive {
		return storefront.Product{}, errProductNotFound
	}
	return p, nil
}
