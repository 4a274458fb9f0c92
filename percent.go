package twr

import "fmt"

// Percent is a percentage value (1.0 means 1%).
type Percent float64

// FractionAsPercent converts a fractional return (0.01 = 1%) to a Percent.
func FractionAsPercent(f float64) Percent { return Percent(100 * f) }

// Equal compares two percentages with display precision.
func (p Percent) Equal(q Percent) bool {
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString renders the percentage with an explicit sign, and a zero
// value as "-".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
