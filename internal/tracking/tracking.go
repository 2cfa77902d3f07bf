// Package tracking generates and normalizes public tracking numbers.
package tracking

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const DefaultPrefix = "AFG"

var pattern = regexp.MustCompile(`^[A-Z]+-\d{4}-\d{4}$`)

// Generator draws tracking numbers of the form PREFIX-YEAR-NNNN.
// The result is not unique by construction; the store's unique constraint is
// the source of truth and callers regenerate on collision.
type Generator struct {
	Prefix string
	// Intn returns a value in [0, n). Defaults to math/rand/v2.
	Intn func(n int) int
}

func NewGenerator(prefix string) *Generator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Generator{Prefix: prefix, Intn: rand.IntN}
}

func (g *Generator) Generate(now time.Time) string {
	intn := g.Intn
	if intn == nil {
		intn = rand.IntN
	}
	return fmt.Sprintf("%s-%d-%d", g.Prefix, now.Year(), 1000+intn(9000))
}

// Normalize uppercases raw and strips every whitespace rune.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, raw)
}

// Valid reports whether id follows the PREFIX-YYYY-NNNN convention.
// Lookups do not require it.
func Valid(id string) bool {
	return pattern.MatchString(id)
}
