package daycount

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is a repayment frequency identifier.
type Frequency struct {
	value string
}

const (
	freqWeekly     = "weekly"
	freqBiweekly   = "biweekly"
	freqMonthly    = "monthly"
	freqQuarterly  = "quarterly"
	freqSemiannual = "semiannual"
	freqAnnual     = "annual"
)

var (
	Weekly     = Frequency{value: freqWeekly}
	Biweekly   = Frequency{value: freqBiweekly}
	Monthly    = Frequency{value: freqMonthly}
	Quarterly  = Frequency{value: freqQuarterly}
	Semiannual = Frequency{value: freqSemiannual}
	Annual     = Frequency{value: freqAnnual}
)

var validFrequencies = map[string]Frequency{
	freqWeekly:     Weekly,
	freqBiweekly:   Biweekly,
	freqMonthly:    Monthly,
	freqQuarterly:  Quarterly,
	freqSemiannual: Semiannual,
	freqAnnual:     Annual,
}

// ParseFrequency creates a Frequency from a raw string.
func ParseFrequency(s string) (Frequency, error) {
	v, ok := validFrequencies[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Frequency{}, fmt.Errorf("unsupported repayment frequency %q", s)
	}
	return v, nil
}

// String returns the frequency identifier.
func (f Frequency) String() string { return f.value }

// IsZero returns true if the frequency has not been initialised.
func (f Frequency) IsZero() bool { return f.value == "" }

// Equal returns true when both frequencies carry the same value.
func (f Frequency) Equal(other Frequency) bool { return f.value == other.value }

// PeriodsPerYear returns the number of periods in a year for the frequency.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case Weekly:
		return 52
	case Biweekly:
		return 26
	case Monthly:
		return 12
	case Quarterly:
		return 4
	case Semiannual:
		return 2
	case Annual:
		return 1
	default:
		return 0
	}
}

// dayBased reports whether periods advance by a fixed day count rather than
// by calendar months.
func (f Frequency) dayBased() bool {
	return f == Weekly || f == Biweekly
}

func (f Frequency) periodDays() int {
	if f == Weekly {
		return 7
	}
	return 14
}

func (f Frequency) periodMonths() int {
	switch f {
	case Monthly:
		return 1
	case Quarterly:
		return 3
	case Semiannual:
		return 6
	case Annual:
		return 12
	default:
		return 0
	}
}

// AddPeriod advances a date by n periods of the frequency. Day-based
// frequencies use exact day arithmetic; month-based frequencies use calendar
// months clamped to the target month's last day, so Jan 31 + 1 monthly period
// is Feb 28 (or Feb 29 in a leap year).
func AddPeriod(t time.Time, f Frequency, n int) time.Time {
	if f.dayBased() {
		return t.AddDate(0, 0, n*f.periodDays())
	}
	return addMonthsClamped(t, n*f.periodMonths())
}

// PeriodsForMonths converts a span of months into a whole number of periods
// of the frequency, rounding to the nearest period. Half a period rounds up:
// an 18-month tenure at annual frequency is 2 periods. This rounding is the
// documented tenure conversion policy, not an implementation accident.
func PeriodsForMonths(months int, f Frequency) int {
	if months <= 0 {
		return 0
	}
	return (months*f.PeriodsPerYear() + 6) / 12
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	// Normalise via the first of the target month so day overflow cannot
	// spill into the following month.
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := DaysInMonth(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}
