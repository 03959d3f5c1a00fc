package storefront

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOrder string

const (
	SortName      SortOrder = "name"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortDiscount  SortOrder = "discount"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

var storeLanguage = language.BrazilianPortuguese

type ProductQuery struct {
	Search          string
	Category        string
	Sort            SortOrder
	FeaturedOnly    bool
	PromotionalOnly bool
	ActiveOnly      bool
}

type SetQuery struct {
	Search     string
	Sort       SortOrder
	ActiveOnly bool
}

// matcher does case-insensitive substring matching. Casers are stateful, so one per query.
type matcher struct {
	caser cases.Caser
	term  string
}

func newMatcher(term string) *matcher {
	m := &matcher{caser: cases.Fold()}
	m.term = m.caser.String(strings.TrimSpace(term))
	return m
}

func (m *matcher) match(fields ...string) bool {
	if m.term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(m.caser.String(f), m.term) {
			return true
		}
	}
	return false
}

// Promotional reports whether the product is shown on the promotions page.
func (p Product) Promotional() bool {
	return p.Discount > 0 || (p.Promotion != nil && p.Promotion.Active)
}

func (p Product) discountPercent() int {
	if p.Promotion != nil && p.Promotion.Active && p.Promotion.Discount > p.Discount {
		return p.Promotion.Discount
	}
	return p.Discount
}

func (c *Catalog) SearchProducts(q ProductQuery) []Product {
	m := newMatcher(q.Search)
	var out []Product
	for _, p := range c.Products() {
		if !m.match(p.Name) {
			continue
		}
		if q.Category != "" && q.Category != CategoryAll && p.Category != q.Category {
			continue
		}
		if q.ActiveOnly && p.Status != ProductActive {
			continue
		}
		if q.FeaturedOnly && !p.Featured {
			continue
		}
		if q.PromotionalOnly && !p.Promotional() {
			continue
		}
		out = append(out, p)
	}

	col := collate.New(storeLanguage)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case SortPriceLow:
			return a.Price.LessThan(b.Price)
		case SortPriceHigh:
			return a.Price.GreaterThan(b.Price)
		case SortDiscount:
			return a.discountPercent() > b.discountPercent()
		default:
			return col.CompareString(a.Name, b.Name) < 0
		}
	})
	return out
}

func (c *Catalog) SearchSets(q SetQuery) []ProductSet {
	m := newMatcher(q.Search)
	var out []ProductSet
	for _, s := range c.Sets() {
		if q.ActiveOnly && s.Status != SetActive {
			continue
		}
		if !m.match(s.Name, s.Description) {
			continue
		}
		out = append(out, s)
	}

	col := collate.New(storeLanguage)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case SortPriceLow:
			return a.Price.LessThan(b.Price)
		case SortPriceHigh:
			return a.Price.GreaterThan(b.Price)
		case SortDiscount:
			return a.Discount.GreaterThan(b.Discount)
		default:
			return col.CompareString(a.Name, b.Name) < 0
		}
	})
	return out
}
