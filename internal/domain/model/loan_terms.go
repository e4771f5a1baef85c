package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/businessday"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/daycount"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/money"
)

// ---------------------------------------------------------------------------
// FloatingRateTerms – benchmark linkage for floating loans
// ---------------------------------------------------------------------------

// FloatingRateTerms describes how a floating loan tracks its benchmark.
// Floor and Cap are optional bounds on the effective rate; nil means
// unbounded on that side. A loan may be floating without a benchmark, in
// which case the stored rate applies until one is configured.
type FloatingRateTerms struct {
	benchmark      string
	spread         decimal.Decimal
	floor          *decimal.Decimal
	cap            *decimal.Decimal
	resetFrequency daycount.Frequency
	firstResetDate time.Time
}

// NewFloatingRateTerms validates and constructs the floating-rate linkage.
// An empty benchmark is allowed; spread, floor and cap are annual
// percentages. firstResetDate may be zero, in which case the first reset is
// one reset period after disbursement.
func NewFloatingRateTerms(
	benchmark string,
	spread decimal.Decimal,
	floor, cap *decimal.Decimal,
	resetFrequency daycount.Frequency,
	firstResetDate time.Time,
) (FloatingRateTerms, error) {
	if resetFrequency.IsZero() {
		return FloatingRateTerms{}, valueobject.NewConfigurationError("reset_frequency", "is required for floating loans")
	}
	if floor != nil && cap != nil && floor.GreaterThan(*cap) {
		return FloatingRateTerms{}, valueobject.NewConfigurationError("rate_floor", "must not exceed rate cap")
	}
	f := FloatingRateTerms{
		benchmark:      benchmark,
		spread:         spread,
		resetFrequency: resetFrequency,
		firstResetDate: firstResetDate,
	}
	if floor != nil {
		v := *floor
		f.floor = &v
	}
	if cap != nil {
		v := *cap
		f.cap = &v
	}
	return f, nil
}

func (f FloatingRateTerms) Benchmark() string                  { return f.benchmark }
func (f FloatingRateTerms) Spread() decimal.Decimal            { return f.spread }
func (f FloatingRateTerms) ResetFrequency() daycount.Frequency { return f.resetFrequency }
func (f FloatingRateTerms) FirstResetDate() time.Time          { return f.firstResetDate }
func (f FloatingRateTerms) HasBenchmark() bool                 { return f.benchmark != "" }

// Floor returns the floor bound and whether one is set.
func (f FloatingRateTerms) Floor() (decimal.Decimal, bool) {
	if f.floor == nil {
		return decimal.Zero, false
	}
	return *f.floor, true
}

// Cap returns the cap bound and whether one is set.
func (f FloatingRateTerms) Cap() (decimal.Decimal, bool) {
	if f.cap == nil {
		return decimal.Zero, false
	}
	return *f.cap, true
}

// ---------------------------------------------------------------------------
// LoanTerms – immutable contractual terms fixed at disbursement
// ---------------------------------------------------------------------------

// LoanTerms captures everything agreed at origination: principal, pricing,
// tenure, repayment cadence and schedule shape. Terms never change after
// disbursement; rate resets and schedule regeneration act on the Loan
// aggregate, not on its terms.
type LoanTerms struct {
	principal    decimal.Decimal
	currency     money.Currency
	annualRate   decimal.Decimal
	rateBasis    valueobject.RateBasis
	dayCount     daycount.Convention
	frequency    daycount.Frequency
	tenureMonths int
	startDate    time.Time
	calendarID   string
	adjustment   businessday.Adjustment
	variant      valueobject.ScheduleVariant
	moratorium   valueobject.Moratorium
	floating     *FloatingRateTerms
}

// NewLoanTerms validates and constructs loan terms. The calendar identifier
// and adjustment convention control how generated due dates are rolled;
// variant and moratorium default to a standard fully-amortizing schedule
// with no holiday.
func NewLoanTerms(
	principal decimal.Decimal,
	currencyCode string,
	annualRate decimal.Decimal,
	rateBasis valueobject.RateBasis,
	dayCount daycount.Convention,
	frequency daycount.Frequency,
	tenureMonths int,
	startDate time.Time,
	calendarID string,
	adjustment businessday.Adjustment,
	variant valueobject.ScheduleVariant,
	moratorium valueobject.Moratorium,
	floating *FloatingRateTerms,
) (LoanTerms, error) {
	if !principal.IsPositive() {
		return LoanTerms{}, valueobject.NewConfigurationError("principal", "must be positive")
	}
	currency, err := money.NewCurrency(currencyCode)
	if err != nil {
		return LoanTerms{}, valueobject.NewConfigurationError("currency", err.Error())
	}
	if annualRate.IsNegative() {
		return LoanTerms{}, valueobject.NewConfigurationError("annual_rate", "must not be negative")
	}
	if rateBasis.IsZero() {
		return LoanTerms{}, valueobject.NewConfigurationError("rate_basis", "is required")
	}
	if dayCount.IsZero() {
		return LoanTerms{}, valueobject.NewConfigurationError("day_count", "is required")
	}
	if frequency.IsZero() {
		return LoanTerms{}, valueobject.NewConfigurationError("repayment_frequency", "is required")
	}
	if tenureMonths <= 0 {
		return LoanTerms{}, valueobject.NewConfigurationError("tenure_months", "must be positive")
	}
	if daycount.PeriodsForMonths(tenureMonths, frequency) < 1 {
		return LoanTerms{}, valueobject.NewConfigurationError("tenure_months", "yields no repayment periods at the given frequency")
	}
	if startDate.IsZero() {
		return LoanTerms{}, valueobject.NewConfigurationError("start_date", "is required")
	}
	if adjustment.IsZero() {
		adjustment = businessday.NoAdjustment
	}
	if floating != nil && rateBasis != valueobject.RateBasisFloating {
		return LoanTerms{}, valueobject.NewConfigurationError("rate_basis", "benchmark linkage requires a floating basis")
	}
	t := LoanTerms{
		principal:    principal,
		currency:     currency,
		annualRate:   annualRate,
		rateBasis:    rateBasis,
		dayCount:     dayCount,
		frequency:    frequency,
		tenureMonths: tenureMonths,
		startDate:    startDate,
		calendarID:   calendarID,
		adjustment:   adjustment,
		variant:      variant,
		moratorium:   moratorium,
	}
	if floating != nil {
		f := *floating
		t.floating = &f
	}
	return t, nil
}

func (t LoanTerms) Principal() decimal.Decimal           { return t.principal }
func (t LoanTerms) Currency() money.Currency             { return t.currency }
func (t LoanTerms) AnnualRate() decimal.Decimal          { return t.annualRate }
func (t LoanTerms) RateBasis() valueobject.RateBasis     { return t.rateBasis }
func (t LoanTerms) DayCount() daycount.Convention        { return t.dayCount }
func (t LoanTerms) Frequency() daycount.Frequency        { return t.frequency }
func (t LoanTerms) TenureMonths() int                    { return t.tenureMonths }
func (t LoanTerms) StartDate() time.Time                 { return t.startDate }
func (t LoanTerms) CalendarID() string                   { return t.calendarID }
func (t LoanTerms) Adjustment() businessday.Adjustment   { return t.adjustment }
func (t LoanTerms) Variant() valueobject.ScheduleVariant { return t.variant }
func (t LoanTerms) Moratorium() valueobject.Moratorium   { return t.moratorium }

// Periods returns the number of repayment periods implied by the tenure and
// repayment frequency.
func (t LoanTerms) Periods() int {
	return daycount.PeriodsForMonths(t.tenureMonths, t.frequency)
}

// Floating returns the benchmark linkage and whether one is configured.
func (t LoanTerms) Floating() (FloatingRateTerms, bool) {
	if t.floating == nil {
		return FloatingRateTerms{}, false
	}
	return *t.floating, true
}

// IsFloating reports whether the loan reprices against its stored or
// benchmark-derived rate.
func (t LoanTerms) IsFloating() bool {
	return t.rateBasis == valueobject.RateBasisFloating
}

// IsZero reports whether the terms are unset.
func (t LoanTerms) IsZero() bool {
	return t.principal.IsZero() && t.tenureMonths == 0
}
