// Package businessday provides holiday calendars and business-day
// adjustment conventions for due date rolling.
//
// A Calendar combines a weekend definition with a set of dated holidays.
// Dates are compared at day granularity in UTC; callers should pass
// midnight-UTC dates, which is what the schedule generator produces.
package businessday

import (
	"fmt"
	"time"
)

// Adjustment names a business-day rolling convention applied to a due
// date that falls on a non-business day.
type Adjustment struct {
	value string
}

var (
	// NoAdjustment leaves the date untouched.
	NoAdjustment = Adjustment{value: "no_adjustment"}
	// Following rolls forward to the next business day.
	Following = Adjustment{value: "following"}
	// Preceding rolls backward to the previous business day.
	Preceding = Adjustment{value: "preceding"}
	// ModifiedFollowing rolls forward unless that crosses into the next
	// calendar month, in which case it rolls backward instead.
	ModifiedFollowing = Adjustment{value: "modified_following"}
	// ModifiedPreceding rolls backward unless that crosses into the
	// previous calendar month, in which case it rolls forward instead.
	ModifiedPreceding = Adjustment{value: "modified_preceding"}
)

var validAdjustments = map[string]Adjustment{
	"no_adjustment":      NoAdjustment,
	"following":          Following,
	"preceding":          Preceding,
	"modified_following": ModifiedFollowing,
	"modified_preceding": ModifiedPreceding,
}

// ParseAdjustment validates and returns an Adjustment.
func ParseAdjustment(s string) (Adjustment, error) {
	a, ok := validAdjustments[s]
	if !ok {
		return Adjustment{}, fmt.Errorf("unsupported business day adjustment: %q", s)
	}
	return a, nil
}

func (a Adjustment) String() string { return a.value }

// IsZero reports whether the adjustment is the zero value.
func (a Adjustment) IsZero() bool { return a.value == "" }

// Equal compares two adjustments.
func (a Adjustment) Equal(other Adjustment) bool { return a.value == other.value }

const dayKeyFormat = "2006-01-02"

// Calendar answers business-day queries against a holiday set.
type Calendar struct {
	id       string
	weekend  map[time.Weekday]struct{}
	holidays map[string]struct{}
}

// NewCalendar builds a calendar with the default Saturday/Sunday
// weekend and the given holiday dates.
func NewCalendar(id string, holidays []time.Time) *Calendar {
	return NewCalendarWithWeekend(id, holidays, []time.Weekday{time.Saturday, time.Sunday})
}

// NewCalendarWithWeekend builds a calendar with an explicit weekend
// definition, for jurisdictions that do not rest on Saturday/Sunday.
func NewCalendarWithWeekend(id string, holidays []time.Time, weekend []time.Weekday) *Calendar {
	c := &Calendar{
		id:       id,
		weekend:  make(map[time.Weekday]struct{}, len(weekend)),
		holidays: make(map[string]struct{}, len(holidays)),
	}
	for _, wd := range weekend {
		c.weekend[wd] = struct{}{}
	}
	for _, h := range holidays {
		c.holidays[h.UTC().Format(dayKeyFormat)] = struct{}{}
	}
	return c
}

// ID returns the calendar identifier.
func (c *Calendar) ID() string { return c.id }

// IsBusinessDay reports whether t is neither a weekend day nor a holiday.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	if _, ok := c.weekend[t.Weekday()]; ok {
		return false
	}
	_, holiday := c.holidays[t.UTC().Format(dayKeyFormat)]
	return !holiday
}

// NextBusinessDay returns the first business day strictly after t.
func (c *Calendar) NextBusinessDay(t time.Time) time.Time {
	for {
		t = t.AddDate(0, 0, 1)
		if c.IsBusinessDay(t) {
			return t
		}
	}
}

// PreviousBusinessDay returns the first business day strictly before t.
func (c *Calendar) PreviousBusinessDay(t time.Time) time.Time {
	for {
		t = t.AddDate(0, 0, -1)
		if c.IsBusinessDay(t) {
			return t
		}
	}
}

// AddBusinessDays moves n business days from t. Negative n moves
// backward. n == 0 returns t unchanged even on a non-business day.
func (c *Calendar) AddBusinessDays(t time.Time, n int) time.Time {
	for n > 0 {
		t = c.NextBusinessDay(t)
		n--
	}
	for n < 0 {
		t = c.PreviousBusinessDay(t)
		n++
	}
	return t
}

// Adjust rolls t according to the convention. Business days are always
// returned unchanged. The modified conventions compare the rolled date's
// month against the original date's month, not against intermediate
// candidates.
func (c *Calendar) Adjust(t time.Time, conv Adjustment) time.Time {
	if conv.Equal(NoAdjustment) || c.IsBusinessDay(t) {
		return t
	}
	switch {
	case conv.Equal(Following):
		return c.NextBusinessDay(t)
	case conv.Equal(Preceding):
		return c.PreviousBusinessDay(t)
	case conv.Equal(ModifiedFollowing):
		rolled := c.NextBusinessDay(t)
		if rolled.Month() != t.Month() || rolled.Year() != t.Year() {
			return c.PreviousBusinessDay(t)
		}
		return rolled
	case conv.Equal(ModifiedPreceding):
		rolled := c.PreviousBusinessDay(t)
		if rolled.Month() != t.Month() || rolled.Year() != t.Year() {
			return c.NextBusinessDay(t)
		}
		return rolled
	default:
		return t
	}
}
