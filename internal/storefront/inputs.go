package storefront

import (
	"strings"

	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	Price         decimal.Decimal   `json:"price"`
	OriginalPrice *decimal.Decimal  `json:"originalPrice,omitempty"`
	Discount      int               `json:"discount,omitempty"`
	Stock         int               `json:"stock"`
	Status        ProductStatus     `json:"status,omitempty"`
	Featured      bool              `json:"featured"`
	Images        []string          `json:"images,omitempty"`
	Description   string            `json:"description"`
	Colors        []ColorOption     `json:"colors,omitempty"`
	Sizes         []string          `json:"sizes,omitempty"`
	Promotion     *ProductPromotion `json:"promotion,omitempty"`
	Material      string            `json:"material,omitempty"`
	Care          string            `json:"care,omitempty"`
}

func (in ProductInput) product(id string) Product {
	p := Product{
		ID:            id,
		Name:          strings.TrimSpace(in.Name),
		Category:      strings.TrimSpace(in.Category),
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Discount:      in.Discount,
		Stock:         in.Stock,
		Status:        in.Status,
		Featured:      in.Featured,
		Images:        in.Images,
		Description:   in.Description,
		Colors:        in.Colors,
		Sizes:         in.Sizes,
		Promotion:     in.Promotion,
		Material:      in.Material,
		Care:          in.Care,
	}
	if p.Status == "" {
		p.Status = ProductActive
	}
	return p.Clone()
}

// ProductPatch carries the fields to change; nil means "leave as is".
type ProductPatch struct {
	Name          *string           `json:"name,omitempty"`
	Category      *string           `json:"category,omitempty"`
	Price         *decimal.Decimal  `json:"price,omitempty"`
	OriginalPrice *decimal.Decimal  `json:"originalPrice,omitempty"`
	Discount      *int              `json:"discount,omitempty"`
	Stock         *int              `json:"stock,omitempty"`
	Status        *ProductStatus    `json:"status,omitempty"`
	Featured      *bool             `json:"featured,omitempty"`
	Images        []string          `json:"images,omitempty"`
	Description   *string           `json:"description,omitempty"`
	Colors        []ColorOption     `json:"colors,omitempty"`
	Sizes         []string          `json:"sizes,omitempty"`
	Promotion     *ProductPromotion `json:"promotion,omitempty"`
	Material      *string           `json:"material,omitempty"`
	Care          *string           `json:"care,omitempty"`
}

func (pt ProductPatch) apply(p Product) Product {
	if pt.Name != nil {
		p.Name = strings.TrimSpace(*pt.Name)
	}
	if pt.Category != nil {
		p.Category = strings.TrimSpace(*pt.Category)
	}
	if pt.Price != nil {
		p.Price = *pt.Price
	}
	if pt.OriginalPrice != nil {
		p.OriginalPrice = pt.OriginalPrice
	}
	if pt.Discount != nil {
		p.Discount = *pt.Discount
	}
	if pt.Stock != nil {
		p.Stock = *pt.Stock
	}
	if pt.Status != nil {
		p.Status = *pt.Status
	}
	if pt.Featured != nil {
		p.Featured = *pt.Featured
	}
	if pt.Images != nil {
		p.Images = pt.Images
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.Colors != nil {
		p.Colors = pt.Colors
	}
	if pt.Sizes != nil {
		p.Sizes = pt.Sizes
	}
	if pt.Promotion != nil {
		p.Promotion = pt.Promotion
	}
	if pt.Material != nil {
		p.Material = *pt.Material
	}
	if pt.Care != nil {
		p.Care = *pt.Care
	}
	return p.Clone()
}

func validateProduct(p Product) error {
	switch {
	case p.Name == "":
		return invalid("name", ReasonRequired)
	case p.Category == "":
		return invalid("category", ReasonRequired)
	case p.Price.IsNegative():
		return invalid("price", ReasonNegative)
	case p.OriginalPrice != nil && p.OriginalPrice.IsNegative():
		return invalid("originalPrice", ReasonNegative)
	case p.Stock < 0:
		return invalid("stock", ReasonNegative)
	case p.Discount < 0 || p.Discount > 100:
		return invalid("discount", ReasonOutOfRange)
	case !p.Status.Valid():
		return invalid("status", ReasonUnknown)
	case p.Promotion != nil && (p.Promotion.Discount < 0 || p.Promotion.Discount > 100):
		return invalid("promotion.discount", ReasonOutOfRange)
	}
	return nil
}

type PromotionInput struct {
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Discount           decimal.Decimal `json:"discount"`
	ValidUntil         Date            `json:"validUntil"`
	Type               PromotionType   `json:"type"`
	Status             PromotionStatus `json:"status"`
	ApplicableProducts []string        `json:"applicableProducts,omitempty"`
}

func (in PromotionInput) promotion(id string) Promotion {
	p := Promotion{
		ID:                 id,
		Title:              strings.TrimSpace(in.Title),
		Description:        strings.TrimSpace(in.Description),
		Discount:           in.Discount,
		ValidUntil:         in.ValidUntil,
		Type:               in.Type,
		Status:             in.Status,
		ApplicableProducts: in.ApplicableProducts,
	}
	if p.Type == "" {
		p.Type = PromotionPercentage
	}
	if p.Status == "" {
		p.Status = PromotionActive
	}
	return p.clone()
}

type PromotionPatch struct {
	Title              *string          `json:"title,omitempty"`
	Description        *string          `json:"description,omitempty"`
	Discount           *decimal.Decimal `json:"discount,omitempty"`
	ValidUntil         *Date            `json:"validUntil,omitempty"`
	Type               *PromotionType   `json:"type,omitempty"`
	Status             *PromotionStatus `json:"status,omitempty"`
	ApplicableProducts []string         `json:"applicableProducts,omitempty"`
}

func (pt PromotionPatch) apply(p Promotion) Promotion {
	if pt.Title != nil {
		p.Title = strings.TrimSpace(*pt.Title)
	}
	if pt.Description != nil {
		p.Description = strings.TrimSpace(*pt.Description)
	}
	if pt.Discount != nil {
		p.Discount = *pt.Discount
	}
	if pt.ValidUntil != nil {
		p.ValidUntil = *pt.ValidUntil
	}
	if pt.Type != nil {
		p.Type = *pt.Type
	}
	if pt.Status != nil {
		p.Status = *pt.Status
	}
	if pt.ApplicableProducts != nil {
		p.ApplicableProducts = pt.ApplicableProducts
	}
	return p.clone()
}

type SetInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Products    []string        `json:"products"`
	Discount    decimal.Decimal `json:"discount"`
	Image       string          `json:"image"`
	Status      SetStatus       `json:"status,omitempty"`
}

type SetPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Products    []string         `json:"products,omitempty"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Status      *SetStatus       `json:"status,omitempty"`
}

// repriced reports whether the patch changes anything the set price depends on.
func (pt SetPatch) repriced() bool {
	return pt.Products != nil || pt.Discount != nil
}

func (pt SetPatch) apply(s ProductSet) ProductSet {
	if pt.Name != nil {
		s.Name = strings.TrimSpace(*pt.Name)
	}
	if pt.Description != nil {
		s.Description = strings.TrimSpace(*pt.Description)
	}
	if pt.Products != nil {
		s.Products = pt.Products
	}
	if pt.Discount != nil {
		s.Discount = *pt.Discount
	}
	if pt.Image != nil {
		s.Image = *pt.Image
	}
	if pt.Status != nil {
		s.Status = *pt.Status
	}
	return s.clone()
}
