package catalog

import "fmt"

// Complexity buckets how involved an item is to produce in-game. It is
// catalog metadata only; the pricing engine does not read it.
type Complexity string

const (
	ComplexityLow     Complexity = "LOW"
	ComplexityMedium  Complexity = "MEDIUM"
	ComplexityHigh    Complexity = "HIGH"
	ComplexityExtreme Complexity = "EXTREME"
)

var validComplexities = map[Complexity]bool{
	ComplexityLow:     true,
	ComplexityMedium:  true,
	ComplexityHigh:    true,
	ComplexityExtreme: true,
}

// ParseComplexity converts a string to a Complexity.
func ParseComplexity(s string) (Complexity, error) {
	c := Complexity(s)
	if !validComplexities[c] {
		return "", fmt.Errorf("invalid complexity class: %q", s)
	}
	return c, nil
}

func (c Complexity) String() string {
	return string(c)
}
