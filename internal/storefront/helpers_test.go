package storefront

import (
	"math/rand/v2"
	"time"

	"github.com/ariefcatur/zander-storefront/internal/idgen"
)

// seqIDs returns a generator on a fixed clock with a seeded suffix source.
func seqIDs(now time.Time) *idgen.Generator {
	r := rand.New(rand.NewPCG(1, 2))
	return &idgen.Generator{
		Now:  func() time.Time { return now },
		Intn: r.IntN,
	}
}

var testNow = time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC)

func tee() Product {
	return Product{
		ID:       "p1",
		Name:     "Camiseta Oversized",
		Category: "camisetas",
		Price:    dec("79.90"),
		Stock:    10,
		Status:   ProductActive,
		Sizes:    []string{"P", "M", "G"},
		Colors:   []ColorOption{{Name: "Preto"}, {Name: "Branco"}},
	}
}

func hoodie() Product {
	return Product{
		ID:       "p2",
		Name:     "Moletom Canguru",
		Category: "moletons",
		Price:    dec("149.90"),
		Stock:    5,
		Status:   ProductActive,
		Sizes:    []string{"M", "G"},
		Colors:   []ColorOption{{Name: "Cinza"}},
	}
}
