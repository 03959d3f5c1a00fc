package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/zander-storefront/internal/storefront"
	"github.com/go-chi/chi/v5"
)

type reviewsView struct {
	Reviews       []storefront.Review           `json:"reviews"`
	AverageRating float64                       `json:"averageRating"`
	Distribution  storefront.RatingDistribution `json:"distribution"`
}

func (h *StoreHandler) openReviews(ctx context.Context, productID string) (*storefront.ReviewLedger, error) {
	if _, ok := h.Catalog.Product(productID); !ok {
		return nil, errProductNotFound
	}
	return storefront.NewReviewLedger(ctx, h.Store, productID, nil, h.Log)
}

func (h *StoreHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	l, err := h.openReviews(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewsView{
		Reviews:       orEmpty(l.Reviews()),
		AverageRating: l.AverageRating(),
		Distribution:  l.RatingDistribution(),
	})
}

func (h *StoreHandler) addReview(w http.ResponseWriter, r *http.Request) {
	var in storefront.ReviewInput
	if err := decode(r, &in, false); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	l, err := h.openReviews(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rev, err := l.Add(ctx, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rev)
}
