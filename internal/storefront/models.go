package storefront

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// JSON names follow the browser blob layout so persisted carts and favorites stay readable.

type ColorOption struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type ProductPromotion struct {
	Active   bool `json:"active"`
	Discount int  `json:"discount"` // percent
}

type Product struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	Price         decimal.Decimal   `json:"price"`
	OriginalPrice *decimal.Decimal  `json:"originalPrice,omitempty"`
	Discount      int               `json:"discount,omitempty"` // percent, display only
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

// Clone returns a copy that shares no slices or pointers with p.
func (p Product) Clone() Product {
	c := p
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		c.OriginalPrice = &op
	}
	if p.Promotion != nil {
		pr := *p.Promotion
		c.Promotion = &pr
	}
	c.Images = append([]string(nil), p.Images...)
	c.Sizes = append([]string(nil), p.Sizes...)
	c.Colors = append([]ColorOption(nil), p.Colors...)
	return c
}

func (p Product) HasColor(name string) bool {
	for _, c := range p.Colors {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// CheckSelection requires a size and a color whenever the product offers them, and rejects
// values the product does not offer.
func (p Product) CheckSelection(size, color string) error {
	if (len(p.Sizes) > 0 && size == "") || (len(p.Colors) > 0 && color == "") {
		return ErrSelectionRequired
	}
	return p.CheckOffered(size, color)
}

// CheckOffered accepts an empty size or color and rejects values the product does not offer.
func (p Product) CheckOffered(size, color string) error {
	if size != "" && !p.HasSize(size) {
		return invalid("size", ReasonInvalidValue)
	}
	if color != "" && !p.HasColor(color) {
		return invalid("color", ReasonInvalidValue)
	}
	return nil
}

type CartItem struct {
	Product
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selectedSize,omitempty"`
	SelectedColor string `json:"selectedColor,omitempty"`
}

func (it CartItem) matches(id, size, color string) bool {
	return it.ID == id && it.SelectedSize == size && it.SelectedColor == color
}

// Subtotal is the snapshot unit price times quantity.
func (it CartItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type Review struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	UserName    string    `json:"userName,omitempty"`
	Date        time.Time `json:"date"`
	IsAnonymous bool      `json:"isAnonymous"`
}

type Promotion struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Discount           decimal.Decimal `json:"discount"`
	ValidUntil         Date            `json:"validUntil"`
	Type               PromotionType   `json:"type"`
	Status             PromotionStatus `json:"status"`
	ApplicableProducts []string        `json:"applicableProducts,omitempty"`
}

func (p Promotion) clone() Promotion {
	c := p
	c.ApplicableProducts = append([]string(nil), p.ApplicableProducts...)
	return c
}

type ProductSet struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Products      []string        `json:"products"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Discount      decimal.Decimal `json:"discount"`
	Image         string          `json:"image"`
	Status        SetStatus       `json:"status"`
}

func (s ProductSet) clone() ProductSet {
	c := s
	c.Products = append([]string(nil), s.Products...)
	return c
}

const dateLayout = "2006-01-02"

// Date is a calendar day encoded as "yyyy-mm-dd".
type Date struct{ time.Time }

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	pd, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = pd
	return nil
}

// Covers reports whether t falls on or before the day, evaluated in t's location.
func (d Date) Covers(t time.Time) bool {
	if d.IsZero() {
		return false
	}
	y, m, dd := d.Date()
	end := time.Date(y, m, dd+1, 0, 0, 0, 0, t.Location())
	return t.Before(end)
}
