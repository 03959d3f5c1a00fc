package storefront

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BundleQuote is the aggregate pricing of a product set. No rounding is applied.
type BundleQuote struct {
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	FinalPrice    decimal.Decimal `json:"finalPrice"`
	Savings       decimal.Decimal `json:"savings"`
	Discount      decimal.Decimal `json:"discount"`
}

// PriceBundle sums prices and applies a percentage discount:
// final = original × (1 − discount/100).
func PriceBundle(prices []decimal.Decimal, discount decimal.Decimal) BundleQuote {
	original := decimal.Zero
	for _, p := range prices {
		original = original.Add(p)
	}
	final := original.Mul(hundred.Sub(discount)).Div(hundred)
	return BundleQuote{
		OriginalPrice: original,
		FinalPrice:    final,
		Savings:       original.Sub(final),
		Discount:      discount,
	}
}

func validPercent(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}

// Apply returns price after this promotion; fixed discounts never go below zero.
func (p Promotion) Apply(price decimal.Decimal) decimal.Decimal {
	switch p.Type {
	case PromotionPercentage:
		return price.Mul(hundred.Sub(p.Discount)).Div(hundred)
	case PromotionFixed:
		out := price.Sub(p.Discount)
		if out.IsNegative() {
			return decimal.Zero
		}
		return out
	default:
		return price
	}
}

// AppliesTo is true for store-wide promotions and for listed products.
func (p Promotion) AppliesTo(productID string) bool {
	if len(p.ApplicableProducts) == 0 {
		return true
	}
	for _, id := range p.ApplicableProducts {
		if id == productID {
			return true
		}
	}
	return false
}

// Running reports whether the promotion is active and not past its last valid day.
func (p Promotion) Running(now time.Time) bool {
	return p.Status == PromotionActive && p.ValidUntil.Covers(now)
}

// EffectivePrice is the lowest price of p under its own promotion and any running promotion
// that applies to it.
func EffectivePrice(p Product, promos []Promotion, now time.Time) decimal.Decimal {
	best := p.Price
	if p.Promotion != nil && p.Promotion.Active && p.Promotion.Discount > 0 {
		own := p.Price.Mul(hundred.Sub(decimal.NewFromInt(int64(p.Promotion.Discount)))).Div(hundred)
		if own.LessThan(best) {
			best = own
		}
	}
	for _, promo := range promos {
		if !promo.Running(now) || !promo.AppliesTo(p.ID) {
			continue
		}
		if v := promo.Apply(p.Price); v.LessThan(best) {
			best = v
		}
	}
	return best
}
