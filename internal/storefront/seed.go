package storefront

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func seedPrice(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pricePtr(s string) *decimal.Decimal {
	d := seedPrice(s)
	return &d
}

func colors(names ...string) []ColorOption {
	out := make([]ColorOption, 0, len(names))
	for _, n := range names {
		out = append(out, ColorOption{Name: n})
	}
	return out
}

// DemoProducts is the launch catalog shown before any admin edit.
func DemoProducts() []ProductInput {
	return []ProductInput{
		{
			Name:          "Camiseta Premium Laranja",
			Category:      "camisetas",
			Price:         seedPrice("79.90"),
			OriginalPrice: pricePtr("99.90"),
			Discount:      20,
			Stock:         25,
			Featured:      true,
			Images:        []string{"/assets/product-tshirt.jpg"},
			Description:   "Camiseta 100% algodão com design moderno e confortável",
			Colors:        colors("Laranja", "Branco", "Preto"),
			Sizes:         []string{"P", "M", "G", "GG"},
			Promotion:     &ProductPromotion{Active: true, Discount: 20},
			Material:      "100% algodão",
		},
		{
			Name:        "Calça Jeans Premium",
			Category:    "calcas",
			Price:       seedPrice("149.90"),
			Stock:       15,
			Featured:    true,
			Images:      []string{"/assets/product-jeans.jpg"},
			Description: "Calça jeans de alta qualidade com corte moderno",
			Colors:      colors("Azul Escuro", "Preto"),
			Sizes:       []string{"36", "38", "40", "42", "44"},
		},
		{
			Name:          "Tênis Casual Branco",
			Category:      "calcados",
			Price:         seedPrice("199.90"),
			OriginalPrice: pricePtr("249.90"),
			Discount:      25,
			Stock:         12,
			Featured:      true,
			Images:        []string{"/assets/product-sneakers.jpg"},
			Description:   "Tênis casual confortável para o dia a dia",
			Colors:        colors("Branco", "Preto"),
			Sizes:         []string{"37", "38", "39", "40", "41", "42"},
			Promotion:     &ProductPromotion{Active: true, Discount: 25},
		},
		{
			Name:        "Camiseta Basic Preta",
			Category:    "camisetas",
			Price:       seedPrice("59.90"),
			Stock:       40,
			Images:      []string{"/assets/product-tshirt.jpg"},
			Description: "Camiseta básica essencial para o guarda-roupa",
			Colors:      colors("Preto", "Branco"),
			Sizes:       []string{"P", "M", "G", "GG"},
		},
		{
			Name:          "Calça Cargo Premium",
			Category:      "calcas",
			Price:         seedPrice("169.90"),
			OriginalPrice: pricePtr("199.90"),
			Discount:      15,
			Stock:         8,
			Images:        []string{"/assets/product-jeans.jpg"},
			Description:   "Calça cargo com múltiplos bolsos e design urbano",
			Colors:        colors("Verde", "Bege", "Preto"),
			Sizes:         []string{"36", "38", "40", "42"},
			Promotion:     &ProductPromotion{Active: true, Discount: 15},
		},
		{
			Name:        "Tênis Sport Orange",
			Category:    "calcados",
			Price:       seedPrice("249.90"),
			Stock:       10,
			Images:      []string{"/assets/product-sneakers.jpg"},
			Description: "Tênis esportivo com tecnologia de amortecimento",
			Colors:      colors("Laranja", "Branco"),
			Sizes:       []string{"37", "38", "39", "40", "41", "42"},
		},
	}
}

// Seed loads the demo products plus one set built from the first three of them.
func Seed(c *Catalog) error {
	var ids []string
	for _, in := range DemoProducts() {
		p, err := c.AddProduct(in)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", in.Name, err)
		}
		ids = append(ids, p.ID)
	}
	_, err := c.AddSet(SetInput{
		Name:        "Look Completo Zander",
		Description: "Camiseta, calça e tênis com desconto especial",
		Products:    ids[:3],
		Discount:    decimal.NewFromInt(16),
		Image:       "/assets/hero-image.jpg",
	})
	if err != nil {
		return fmt.Errorf("seed set: %w", err)
	}
	return nil
}
