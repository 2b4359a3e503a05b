package harness

import (
	"fmt"

	"github.com/google/uuid"
)

// RunIDGenerator produces identifiers for scenario runs. Implemented by
// UUIDv7Generator (production) and FixedGenerator (tests).
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run identifiers, so
// recorded runs order by creation time.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns a predetermined sequence of run identifiers.
// This enables deterministic golden trace comparison in tests.
type FixedGenerator struct {
	prefix string
	next   int
}

// NewFixedGenerator creates a FixedGenerator producing "<prefix>-0001",
// "<prefix>-0002", ...
func NewFixedGenerator(prefix string) *FixedGenerator {
	return &FixedGenerator{prefix: prefix}
}

// Generate returns the next identifier in the fixed sequence.
func (g *FixedGenerator) Generate() string {
	g.next++
	return fmt.Sprintf("%s-%04d", g.prefix, g.next)
}
