package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ariefcatur/zander-storefront/internal/blob"
	"github.com/ariefcatur/zander-storefront/internal/idgen"
	"github.com/ariefcatur/zander-storefront/internal/logx"
	"go.uber.org/zap"
)

const (
	PrefixReview = "review"

	MinRating      = 1
	MaxRating      = 5
	MinCommentLen  = 10
	MaxCommentLen  = 500
	MinUserNameLen = 2
)

type ReviewInput struct {
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	UserName  string `json:"userName,omitempty"`
	Anonymous bool   `json:"isAnonymous"`
}

func (in ReviewInput) Validate() error {
	comment := utf8.RuneCountInString(strings.TrimSpace(in.Comment))
	switch {
	case in.Rating < MinRating || in.Rating > MaxRating:
		return invalid("rating", ReasonOutOfRange)
	case comment < MinCommentLen:
		return invalid("comment", ReasonTooShort)
	case comment > MaxCommentLen:
		return invalid("comment", ReasonTooLong)
	case !in.Anonymous && utf8.RuneCountInString(strings.TrimSpace(in.UserName)) < MinUserNameLen:
		return invalid("userName", ReasonRequired)
	}
	return nil
}

// RatingDistribution counts reviews per star; keys 1..5 are always present.
type RatingDistribution map[int]int

// ReviewLedger is the view of one product's reviews. All products share a single stored
// collection; writes merge into it atomically so other products' reviews are never touched.
type ReviewLedger struct {
	mu        sync.Mutex
	productID string
	reviews   []Review
	store     blob.Store
	ids       *idgen.Generator
	log       *zap.Logger
}

// NewReviewLedger binds the ledger to productID, which is required.
func NewReviewLedger(ctx context.Context, store blob.Store, productID string, ids *idgen.Generator, log *zap.Logger) (*ReviewLedger, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("review ledger without product: %w", ErrInvalidOperation)
	}
	if ids == nil {
		ids = idgen.New()
	}
	l := &ReviewLedger{productID: productID, store: store, ids: ids, log: logx.OrNop(log)}
	all, err := loadJSON[[]Review](ctx, store, blob.KeyReviews, l.log)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	l.reviews = forProduct(all, productID)
	return l, nil
}

func (l *ReviewLedger) ProductID() string { return l.productID }

// Add validates and appends a review. Anonymous reviews never keep a name.
func (l *ReviewLedger) Add(ctx context.Context, in ReviewInput) (Review, error) {
	if err := in.Validate(); err != nil {
		return Review{}, err
	}
	r := Review{
		ID:          l.ids.ID(PrefixReview),
		ProductID:   l.productID,
		Rating:      in.Rating,
		Comment:     strings.TrimSpace(in.Comment),
		Date:        l.ids.Now().UTC(),
		IsAnonymous: in.Anonymous,
	}
	if !in.Anonymous {
		r.UserName = strings.TrimSpace(in.UserName)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var scoped []Review
	err := l.store.Update(ctx, blob.KeyReviews, func(cur string, found bool) (string, error) {
		var all []Review
		if found && cur != "" {
			all = decodeJSON[[]Review](cur, blob.KeyReviews, l.log)
		}
		all = append(all, r)
		scoped = forProduct(all, l.productID)
		b, err := json.Marshal(all)
		return string(b), err
	})
	if err != nil {
		return Review{}, fmt.Errorf("save review: %w", err)
	}
	l.reviews = scoped
	return r, nil
}

func (l *ReviewLedger) Reviews() []Review {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Review(nil), l.reviews...)
}

// AverageRating is the mean rating rounded half up to one decimal; 0 without reviews.
func (l *ReviewLedger) AverageRating() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range l.reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(l.reviews))
	return math.Floor(avg*10+0.5) / 10
}

func (l *ReviewLedger) RatingDistribution() RatingDistribution {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := RatingDistribution{5: 0, 4: 0, 3: 0, 2: 0, 1: 0}
	for _, r := range l.reviews {
		if _, ok := d[r.Rating]; ok {
			d[r.Rating]++
		}
	}
	return d
}

// AllReviews returns the whole stored collection across products.
func AllReviews(ctx context.Context, store blob.Store, log *zap.Logger) ([]Review, error) {
	return loadJSON[[]Review](ctx, store, blob.KeyReviews, logx.OrNop(log))
}

func forProduct(all []Review, productID string) []Review {
	var out []Review
	for _, r := range all {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}
