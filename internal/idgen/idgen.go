// Package idgen builds identifiers from the creation time plus a short random base36 suffix.
// They only need to be collision resistant, not unguessable.
package idgen

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

type Generator struct {
	Now  func() time.Time
	Intn func(n int) int
}

// New returns a Generator on the wall clock and the shared math/rand source.
func New() *Generator {
	return &Generator{Now: time.Now, Intn: rand.IntN}
}

// Suffix returns n random base36 characters.
func (g *Generator) Suffix(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(base36[g.Intn(len(base36))])
	}
	return b.String()
}

// ID formats "<prefix>-<unix ms>-<9 base36 chars>", e.g. PRD-1718000000000-k3j9x0a1b.
func (g *Generator) ID(prefix string) string {
	return prefix + "-" + strconv.FormatInt(g.Now().UnixMilli(), 10) + "-" + g.Suffix(9)
}

// Compact formats "<PREFIX>-<base36 unix ms>-<n base36 chars>" upper-cased.
func (g *Generator) Compact(prefix string, n int) string {
	ts := strconv.FormatInt(g.Now().UnixMilli(), 36)
	return strings.ToUpper(prefix + "-" + ts + "-" + g.Suffix(n))
}
