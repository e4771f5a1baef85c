package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// MoratoriumKind – immutable value object
// ---------------------------------------------------------------------------

// MoratoriumKind controls which dues are suspended during a moratorium.
// FULL suspends principal and interest; PRINCIPAL_ONLY suspends principal
// while interest continues to fall due.
type MoratoriumKind struct {
	value string
}

const (
	moratoriumKindFull          = "FULL"
	moratoriumKindPrincipalOnly = "PRINCIPAL_ONLY"
)

var (
	MoratoriumKindFull          = MoratoriumKind{value: moratoriumKindFull}
	MoratoriumKindPrincipalOnly = MoratoriumKind{value: moratoriumKindPrincipalOnly}
)

var validMoratoriumKinds = map[string]MoratoriumKind{
	moratoriumKindFull:          MoratoriumKindFull,
	moratoriumKindPrincipalOnly: MoratoriumKindPrincipalOnly,
}

// NewMoratoriumKind creates a MoratoriumKind from a raw string.
func NewMoratoriumKind(s string) (MoratoriumKind, error) {
	v, ok := validMoratoriumKinds[s]
	if !ok {
		return MoratoriumKind{}, fmt.Errorf("invalid moratorium kind: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (k MoratoriumKind) String() string { return k.value }

// IsZero returns true when not initialised.
func (k MoratoriumKind) IsZero() bool { return k.value == "" }

// Equal returns true when both kinds match.
func (k MoratoriumKind) Equal(other MoratoriumKind) bool { return k.value == other.value }

// ---------------------------------------------------------------------------
// InterestTreatment – immutable value object
// ---------------------------------------------------------------------------

// InterestTreatment controls what happens to interest suppressed by a full
// moratorium: WAIVE forgives it, CAPITALIZE adds it to principal due.
type InterestTreatment struct {
	value string
}

const (
	interestTreatmentWaive      = "WAIVE"
	interestTreatmentCapitalize = "CAPITALIZE"
)

var (
	InterestTreatmentWaive      = InterestTreatment{value: interestTreatmentWaive}
	InterestTreatmentCapitalize = InterestTreatment{value: interestTreatmentCapitalize}
)

var validInterestTreatments = map[string]InterestTreatment{
	interestTreatmentWaive:      InterestTreatmentWaive,
	interestTreatmentCapitalize: InterestTreatmentCapitalize,
}

// NewInterestTreatment creates an InterestTreatment from a raw string.
func NewInterestTreatment(s string) (InterestTreatment, error) {
	v, ok := validInterestTreatments[s]
	if !ok {
		return InterestTreatment{}, fmt.Errorf("invalid interest treatment: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (t InterestTreatment) String() string { return t.value }

// IsZero returns true when not initialised.
func (t InterestTreatment) IsZero() bool { return t.value == "" }

// Equal returns true when both treatments match.
func (t InterestTreatment) Equal(other InterestTreatment) bool { return t.value == other.value }

// ---------------------------------------------------------------------------
// Moratorium – optional repayment holiday at the start of the schedule
// ---------------------------------------------------------------------------

// Moratorium describes a repayment holiday covering the first months of a
// schedule. The zero value means no moratorium.
type Moratorium struct {
	months    int
	kind      MoratoriumKind
	treatment InterestTreatment
}

// NewMoratorium creates a Moratorium. Zero months returns the zero value,
// which generators treat as a no-op.
func NewMoratorium(months int, kind MoratoriumKind, treatment InterestTreatment) (Moratorium, error) {
	if months < 0 {
		return Moratorium{}, NewConfigurationError("moratorium_months", "must not be negative")
	}
	if months == 0 {
		return Moratorium{}, nil
	}
	if kind.IsZero() {
		return Moratorium{}, NewConfigurationError("moratorium_kind", "is required when months is positive")
	}
	if treatment.IsZero() {
		treatment = InterestTreatmentWaive
	}
	return Moratorium{months: months, kind: kind, treatment: treatment}, nil
}

// Months returns the number of months covered by the holiday.
func (m Moratorium) Months() int { return m.months }

// Kind returns which dues are suspended.
func (m Moratorium) Kind() MoratoriumKind { return m.kind }

// Treatment returns what happens to suppressed interest.
func (m Moratorium) Treatment() InterestTreatment { return m.treatment }

// IsZero returns true when no moratorium is configured.
func (m Moratorium) IsZero() bool { return m.months == 0 }
