package storefront

import (
	"slices"
	"sync"
	"time"

	"github.com/ariefcatur/zander-storefront/internal/idgen"
	"github.com/ariefcatur/zander-storefront/internal/logx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	PrefixProduct   = "PRD"
	PrefixPromotion = "PROMO"
	PrefixSet       = "SET"

	minSetProducts = 2
)

// Catalog is the in-memory registry of products, promotions and sets.
// Listings and lookups return copies; callers never hold references into the registry.
type Catalog struct {
	mu         sync.RWMutex
	products   []Product
	promotions []Promotion
	sets       []ProductSet

	ids *idgen.Generator
	log *zap.Logger
}

func NewCatalog(ids *idgen.Generator, log *zap.Logger) *Catalog {
	if ids == nil {
		ids = idgen.New()
	}
	return &Catalog{ids: ids, log: logx.OrNop(log)}
}

// ---- products ----

func (c *Catalog) AddProduct(in ProductInput) (Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := in.product(c.ids.ID(PrefixProduct))
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	c.products = append(c.products, p)
	return p.Clone(), nil
}

// UpdateProduct merges patch into the product; ok is false (and nothing changes) for unknown ids.
func (c *Catalog) UpdateProduct(id string, patch ProductPatch) (Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.productIndex(id)
	if i < 0 {
		return Product{}, false, nil
	}
	next := patch.apply(c.products[i])
	if err := validateProduct(next); err != nil {
		return Product{}, true, err
	}
	c.products[i] = next
	return next.Clone(), true, nil
}

// CascadeResult lists what a product deletion touched.
type CascadeResult struct {
	Found             bool     `json:"found"`
	Sets              []string `json:"sets,omitempty"`
	Promotions        []string `json:"promotions,omitempty"`
	DeactivatedSets   []string `json:"deactivatedSets,omitempty"`
	DeactivatedPromos []string `json:"deactivatedPromotions,omitempty"`
}

// DeleteProduct removes the product and its id from every set and promotion. Sets left with fewer
// than two products and promotions left with no applicable product are deactivated.
// Unknown ids are a no-op.
func (c *Catalog) DeleteProduct(id string) CascadeResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res CascadeResult
	i := c.productIndex(id)
	if i < 0 {
		return res
	}
	res.Found = true
	c.products = slices.Delete(c.products, i, i+1)

	for si := range c.sets {
		s := &c.sets[si]
		if !slices.Contains(s.Products, id) {
			continue
		}
		s.Products = slices.DeleteFunc(s.Products, func(pid string) bool { return pid == id })
		res.Sets = append(res.Sets, s.ID)
		if len(s.Products) < minSetProducts && s.Status != SetInactive {
			s.Status = SetInactive
			res.DeactivatedSets = append(res.DeactivatedSets, s.ID)
		}
	}
	for pi := range c.promotions {
		p := &c.promotions[pi]
		if !slices.Contains(p.ApplicableProducts, id) {
			continue
		}
		p.ApplicableProducts = slices.DeleteFunc(p.ApplicableProducts, func(pid string) bool { return pid == id })
		res.Promotions = append(res.Promotions, p.ID)
		if len(p.ApplicableProducts) == 0 {
			// an empty list would turn the promotion store-wide
			p.ApplicableProducts = nil
			if p.Status != PromotionInactive {
				p.Status = PromotionInactive
				res.DeactivatedPromos = append(res.DeactivatedPromos, p.ID)
			}
		}
	}
	if len(res.Sets) > 0 || len(res.Promotions) > 0 {
		c.log.Info("product delete cascaded",
			zap.String("product_id", id),
			zap.Strings("sets", res.Sets),
			zap.Strings("promotions", res.Promotions))
	}
	return res
}

func (c *Catalog) Product(id string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.productIndex(id)
	if i < 0 {
		return Product{}, false
	}
	return c.products[i].Clone(), true
}

func (c *Catalog) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p.Clone())
	}
	return out
}

// EffectivePrice prices a product under every running promotion at now.
func (c *Catalog) EffectivePrice(id string, now time.Time) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.productIndex(id)
	if i < 0 {
		return decimal.Zero, false
	}
	return EffectivePrice(c.products[i], c.promotions, now), true
}

func (c *Catalog) productIndex(id string) int {
	return slices.IndexFunc(c.products, func(p Product) bool { return p.ID == id })
}

// ---- promotions ----

func (c *Catalog) AddPromotion(in PromotionInput) (Promotion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := in.promotion(c.ids.ID(PrefixPromotion))
	if err := c.validatePromotion(p); err != nil {
		return Promotion{}, err
	}
	c.promotions = append(c.promotions, p)
	return p.clone(), nil
}

func (c *Catalog) UpdatePromotion(id string, patch PromotionPatch) (Promotion, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.promotions, func(p Promotion) bool { return p.ID == id })
	if i < 0 {
		return Promotion{}, false, nil
	}
	next := patch.apply(c.promotions[i])
	if err := c.validatePromotion(next); err != nil {
		return Promotion{}, true, err
	}
	c.promotions[i] = next
	return next.clone(), true, nil
}

func (c *Catalog) DeletePromotion(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.promotions)
	c.promotions = slices.DeleteFunc(c.promotions, func(p Promotion) bool { return p.ID == id })
	return len(c.promotions) != n
}

func (c *Catalog) Promotions() []Promotion {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Promotion, 0, len(c.promotions))
	for _, p := range c.promotions {
		out = append(out, p.clone())
	}
	return out
}

func (c *Catalog) validatePromotion(p Promotion) error {
	switch {
	case p.Title == "":
		return invalid("title", ReasonRequired)
	case p.Description == "":
		return invalid("description", ReasonRequired)
	case p.Discount.IsNegative():
		return invalid("discount", ReasonNegative)
	case p.Discount.IsZero():
		return invalid("discount", ReasonRequired)
	case p.ValidUntil.IsZero():
		return invalid("validUntil", ReasonRequired)
	case !p.Type.Valid():
		return invalid("type", ReasonUnknown)
	case !p.Status.Valid():
		return invalid("status", ReasonUnknown)
	case p.Type == PromotionPercentage && !validPercent(p.Discount):
		return invalid("discount", ReasonOutOfRange)
	}
	for _, id := range p.ApplicableProducts {
		if c.productIndex(id) < 0 {
			return invalid("applicableProducts", ReasonUnknownID)
		}
	}
	return nil
}

// ---- sets ----

// AddSet prices the set from the current catalog prices of its products.
func (c *Catalog) AddSet(in SetInput) (ProductSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := ProductSet{
		ID:          c.ids.ID(PrefixSet),
		Name:        in.Name,
		Description: in.Description,
		Products:    in.Products,
		Discount:    in.Discount,
		Image:       in.Image,
		Status:      in.Status,
	}
	s = SetPatch{}.apply(s) // trims and copies
	if s.Status == "" {
		s.Status = SetActive
	}
	if err := c.priceSet(&s); err != nil {
		return ProductSet{}, err
	}
	c.sets = append(c.sets, s)
	return s.clone(), nil
}

func (c *Catalog) UpdateSet(id string, patch SetPatch) (ProductSet, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.sets, func(s ProductSet) bool { return s.ID == id })
	if i < 0 {
		return ProductSet{}, false, nil
	}
	next := patch.apply(c.sets[i])
	if patch.repriced() {
		if err := c.priceSet(&next); err != nil {
			return ProductSet{}, true, err
		}
	} else if err := validateSetFields(next); err != nil {
		return ProductSet{}, true, err
	}
	c.sets[i] = next
	return next.clone(), true, nil
}

func (c *Catalog) DeleteSet(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.sets)
	c.sets = slices.DeleteFunc(c.sets, func(s ProductSet) bool { return s.ID == id })
	return len(c.sets) != n
}

func (c *Catalog) Set(id string) (ProductSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := slices.IndexFunc(c.sets, func(s ProductSet) bool { return s.ID == id })
	if i < 0 {
		return ProductSet{}, false
	}
	return c.sets[i].clone(), true
}

func (c *Catalog) Sets() []ProductSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ProductSet, 0, len(c.sets))
	for _, s := range c.sets {
		out = append(out, s.clone())
	}
	return out
}

// QuoteSet prices a prospective set without storing it.
func (c *Catalog) QuoteSet(productIDs []string, discount decimal.Decimal) (BundleQuote, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	prices, err := c.setPrices(productIDs, discount)
	if err != nil {
		return BundleQuote{}, err
	}
	return PriceBundle(prices, discount), nil
}

func (c *Catalog) priceSet(s *ProductSet) error {
	s.Products = uniqueIDs(s.Products)
	if err := validateSetFields(*s); err != nil {
		return err
	}
	prices, err := c.setPrices(s.Products, s.Discount)
	if err != nil {
		return err
	}
	q := PriceBundle(prices, s.Discount)
	s.OriginalPrice = q.OriginalPrice
	s.Price = q.FinalPrice
	return nil
}

func (c *Catalog) setPrices(ids []string, discount decimal.Decimal) ([]decimal.Decimal, error) {
	if !validPercent(discount) {
		return nil, invalid("discount", ReasonOutOfRange)
	}
	seen := make(map[string]bool, len(ids))
	prices := make([]decimal.Decimal, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		i := c.productIndex(id)
		if i < 0 {
			return nil, invalid("products", ReasonUnknownID)
		}
		prices = append(prices, c.products[i].Price)
	}
	if len(prices) < minSetProducts {
		return nil, invalid("products", ReasonTooFew)
	}
	return prices, nil
}

func validateSetFields(s ProductSet) error {
	switch {
	case s.Name == "":
		return invalid("name", ReasonRequired)
	case s.Description == "":
		return invalid("description", ReasonRequired)
	case s.Image == "":
		return invalid("image", ReasonRequired)
	case !s.Status.Valid():
		return invalid("status", ReasonUnknown)
	case s.Status == SetActive && len(s.Products) < minSetProducts:
		return invalid("products", ReasonTooFew)
	}
	return nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
