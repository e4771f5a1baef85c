// Package daycount implements the day-count conventions and repayment
// frequencies used for interest accrual on loan schedules.
package daycount

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Convention is a day-count convention identifier.
type Convention struct {
	value string
}

const (
	convThirty360 = "30/360"
	convAct360    = "act/360"
	convAct365    = "act/365"
	convActAct    = "act/act"
)

var (
	Thirty360 = Convention{value: convThirty360}
	Act360    = Convention{value: convAct360}
	Act365    = Convention{value: convAct365}
	ActAct    = Convention{value: convActAct}
)

var validConventions = map[string]Convention{
	convThirty360: Thirty360,
	convAct360:    Act360,
	convAct365:    Act365,
	convActAct:    ActAct,
}

// ParseConvention creates a Convention from a raw string.
func ParseConvention(s string) (Convention, error) {
	v, ok := validConventions[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Convention{}, fmt.Errorf("unsupported day count convention %q", s)
	}
	return v, nil
}

// String returns the convention identifier.
func (c Convention) String() string { return c.value }

// IsZero returns true if the convention has not been initialised.
func (c Convention) IsZero() bool { return c.value == "" }

// Equal returns true when both conventions carry the same value.
func (c Convention) Equal(other Convention) bool { return c.value == other.value }

// YearFraction converts the span [start, end) into a fraction of a year under
// the given convention. The result is 0 when start >= end. Times are read as
// calendar dates; the clock component is ignored.
//
// Conventions:
//   - 30/360:  US bond basis. Day 31 counts as 30 on the start date, and on
//     the end date when the start date is already >= 30.
//   - act/360: actual calendar days over a 360-day year.
//   - act/365: actual calendar days over a fixed 365-day year.
//   - act/act: actual days prorated per calendar year, 365 or 366 as the
//     year's actual length, with the split taken at 31 December; the span
//     2023-12-20 .. 2024-01-10 is 11/365 + 10/366.
func YearFraction(start, end time.Time, c Convention) decimal.Decimal {
	s, e := midnightUTC(start), midnightUTC(end)
	if !s.Before(e) {
		return decimal.Zero
	}

	switch c {
	case Thirty360:
		return thirty360US(s, e)
	case Act360:
		return decimal.NewFromInt(daysBetween(s, e)).Div(decimal.NewFromInt(360))
	case Act365:
		return decimal.NewFromInt(daysBetween(s, e)).Div(decimal.NewFromInt(365))
	case ActAct:
		return actActISDA(s, e)
	default:
		// Unparsed conventions are rejected upstream; an uninitialised
		// convention contributes nothing rather than a bogus fraction.
		return decimal.Zero
	}
}

func thirty360US(start, end time.Time) decimal.Decimal {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()

	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 && d1 >= 30 {
		d2 = 30
	}

	days := (y2-y1)*360 + int(m2-m1)*30 + (d2 - d1)
	return decimal.NewFromInt(int64(days)).Div(decimal.NewFromInt(360))
}

func actActISDA(start, end time.Time) decimal.Decimal {
	frac := decimal.Zero
	segStart := start

	for segStart.Before(end) {
		segEnd := end
		if b := yearBoundary(segStart.Year()); b.After(segStart) && b.Before(end) {
			segEnd = b
		}

		days := decimal.NewFromInt(daysBetween(segStart, segEnd))
		denom := decimal.NewFromInt(int64(DaysInYear(segEnd.Year())))
		frac = frac.Add(days.Div(denom))

		segStart = segEnd
	}

	return frac
}

// yearBoundary is the point at which an act/act span rolls into the next
// year's denominator: 31 December of the given year.
func yearBoundary(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if year%4 != 0 {
		return 365
	}
	if year%100 != 0 {
		return 366
	}
	if year%400 == 0 {
		return 366
	}
	return 365
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysBetween(start, end time.Time) int64 {
	return int64(end.Sub(start).Hours() / 24)
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
