package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// ScheduleKind – immutable value object
// ---------------------------------------------------------------------------

// ScheduleKind names the repayment structure of a loan.
type ScheduleKind struct {
	value string
}

const (
	scheduleKindStandard = "STANDARD"
	scheduleKindStepUp   = "STEP_UP"
	scheduleKindStepDown = "STEP_DOWN"
	scheduleKindBalloon  = "BALLOON"
)

var (
	ScheduleKindStandard = ScheduleKind{value: scheduleKindStandard}
	ScheduleKindStepUp   = ScheduleKind{value: scheduleKindStepUp}
	ScheduleKindStepDown = ScheduleKind{value: scheduleKindStepDown}
	ScheduleKindBalloon  = ScheduleKind{value: scheduleKindBalloon}
)

var validScheduleKinds = map[string]ScheduleKind{
	scheduleKindStandard: ScheduleKindStandard,
	scheduleKindStepUp:   ScheduleKindStepUp,
	scheduleKindStepDown: ScheduleKindStepDown,
	scheduleKindBalloon:  ScheduleKindBalloon,
}

// NewScheduleKind creates a ScheduleKind from a raw string.
func NewScheduleKind(s string) (ScheduleKind, error) {
	v, ok := validScheduleKinds[s]
	if !ok {
		return ScheduleKind{}, fmt.Errorf("invalid schedule kind: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (k ScheduleKind) String() string { return k.value }

// IsZero returns true when not initialised.
func (k ScheduleKind) IsZero() bool { return k.value == "" }

// Equal returns true when both kinds match.
func (k ScheduleKind) Equal(other ScheduleKind) bool { return k.value == other.value }

// ---------------------------------------------------------------------------
// ScheduleVariant – tagged union over the repayment structures
// ---------------------------------------------------------------------------

// ScheduleVariant carries the kind of repayment structure together with the
// parameters that kind needs. Constructors validate the parameters, so a
// non-zero ScheduleVariant is always internally consistent: step fields are
// only set for step kinds, balloon fields only for the balloon kind.
type ScheduleVariant struct {
	kind            ScheduleKind
	stepPercent     decimal.Decimal
	stepEveryMonths int
	balloonPercent  decimal.Decimal
	balloonAmount   decimal.Decimal
}

// StandardVariant returns the plain equated-installment structure.
func StandardVariant() ScheduleVariant {
	return ScheduleVariant{kind: ScheduleKindStandard}
}

// NewStepUpVariant builds a structure whose payment amount increases by
// percent at every step boundary, with boundaries everyMonths apart.
func NewStepUpVariant(percent decimal.Decimal, everyMonths int) (ScheduleVariant, error) {
	if err := validateStep(percent, everyMonths); err != nil {
		return ScheduleVariant{}, err
	}
	return ScheduleVariant{
		kind:            ScheduleKindStepUp,
		stepPercent:     percent,
		stepEveryMonths: everyMonths,
	}, nil
}

// NewStepDownVariant builds a structure whose payment amount decreases by
// percent at every step boundary.
func NewStepDownVariant(percent decimal.Decimal, everyMonths int) (ScheduleVariant, error) {
	if err := validateStep(percent, everyMonths); err != nil {
		return ScheduleVariant{}, err
	}
	return ScheduleVariant{
		kind:            ScheduleKindStepDown,
		stepPercent:     percent,
		stepEveryMonths: everyMonths,
	}, nil
}

func validateStep(percent decimal.Decimal, everyMonths int) error {
	if percent.LessThanOrEqual(decimal.Zero) {
		return NewConfigurationError("step_percent", "must be positive")
	}
	if percent.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return NewConfigurationError("step_percent", "must be below 100")
	}
	if everyMonths <= 0 {
		return NewConfigurationError("step_every_months", "must be positive")
	}
	return nil
}

// NewBalloonVariant builds a structure that leaves a lump sum for the final
// installment, sized either as a percentage of principal or as an absolute
// amount. At least one of the two must be positive; when both are given the
// larger resolved amount wins at generation time.
func NewBalloonVariant(percent, amount decimal.Decimal) (ScheduleVariant, error) {
	if percent.IsNegative() {
		return ScheduleVariant{}, NewConfigurationError("balloon_percent", "must not be negative")
	}
	if amount.IsNegative() {
		return ScheduleVariant{}, NewConfigurationError("balloon_amount", "must not be negative")
	}
	if percent.IsZero() && amount.IsZero() {
		return ScheduleVariant{}, NewConfigurationError("balloon", "requires balloon_percent or balloon_amount")
	}
	if percent.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return ScheduleVariant{}, NewConfigurationError("balloon_percent", "must be below 100")
	}
	return ScheduleVariant{
		kind:           ScheduleKindBalloon,
		balloonPercent: percent,
		balloonAmount:  amount,
	}, nil
}

// Kind returns the schedule kind. The zero variant reports ScheduleKindStandard.
func (v ScheduleVariant) Kind() ScheduleKind {
	if v.kind.IsZero() {
		return ScheduleKindStandard
	}
	return v.kind
}

// StepPercent returns the per-step payment change for step kinds.
func (v ScheduleVariant) StepPercent() decimal.Decimal { return v.stepPercent }

// StepEveryMonths returns the step interval in months for step kinds.
func (v ScheduleVariant) StepEveryMonths() int { return v.stepEveryMonths }

// BalloonPercent returns the balloon size as a percentage of principal.
func (v ScheduleVariant) BalloonPercent() decimal.Decimal { return v.balloonPercent }

// BalloonAmount returns the absolute balloon size.
func (v ScheduleVariant) BalloonAmount() decimal.Decimal { return v.balloonAmount }
