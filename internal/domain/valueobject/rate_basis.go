package valueobject

import "fmt"

// RateBasis distinguishes fixed-rate loans from floating-rate loans that
// track a benchmark plus spread.
type RateBasis struct {
	value string
}

const (
	rateBasisFixed    = "FIXED"
	rateBasisFloating = "FLOATING"
)

var (
	RateBasisFixed    = RateBasis{value: rateBasisFixed}
	RateBasisFloating = RateBasis{value: rateBasisFloating}
)

var validRateBases = map[string]RateBasis{
	rateBasisFixed:    RateBasisFixed,
	rateBasisFloating: RateBasisFloating,
}

// NewRateBasis creates a RateBasis from a raw string.
func NewRateBasis(s string) (RateBasis, error) {
	v, ok := validRateBases[s]
	if !ok {
		return RateBasis{}, fmt.Errorf("invalid rate basis: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (b RateBasis) String() string { return b.value }

// IsZero returns true when not initialised.
func (b RateBasis) IsZero() bool { return b.value == "" }

// Equal returns true when both values match.
func (b RateBasis) Equal(other RateBasis) bool { return b.value == other.value }
