package businessday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// testCalendar: 2024-06-28 is a Friday holiday, so the surrounding
// weekend produces a four-day closure (Fri 28 through Sun 30, with
// Thu 27 the last open day before Mon Jul 1).
func testCalendar() *Calendar {
	return NewCalendar("test", []time.Time{
		date(2024, time.January, 1),
		date(2024, time.June, 28),
		date(2024, time.December, 25),
	})
}

func TestParseAdjustment(t *testing.T) {
	for _, s := range []string{"no_adjustment", "following", "preceding", "modified_following", "modified_preceding"} {
		a, err := ParseAdjustment(s)
		require.NoError(t, err, "adjustment %q", s)
		assert.Equal(t, s, a.String())
	}

	_, err := ParseAdjustment("nearest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported business day adjustment")
}

func TestIsBusinessDay(t *testing.T) {
	cal := testCalendar()

	assert.True(t, cal.IsBusinessDay(date(2024, time.June, 27)), "ordinary Thursday")
	assert.False(t, cal.IsBusinessDay(date(2024, time.June, 28)), "holiday Friday")
	assert.False(t, cal.IsBusinessDay(date(2024, time.June, 29)), "Saturday")
	assert.False(t, cal.IsBusinessDay(date(2024, time.June, 30)), "Sunday")
	assert.True(t, cal.IsBusinessDay(date(2024, time.July, 1)), "Monday after closure")
}

func TestIsBusinessDay_CustomWeekend(t *testing.T) {
	cal := NewCalendarWithWeekend("gulf", nil, []time.Weekday{time.Friday, time.Saturday})

	assert.False(t, cal.IsBusinessDay(date(2024, time.June, 28)), "Friday")
	assert.False(t, cal.IsBusinessDay(date(2024, time.June, 29)), "Saturday")
	assert.True(t, cal.IsBusinessDay(date(2024, time.June, 30)), "Sunday")
}

func TestNextPreviousBusinessDay(t *testing.T) {
	cal := testCalendar()

	t.Run("next is strictly after", func(t *testing.T) {
		assert.Equal(t, date(2024, time.July, 1), cal.NextBusinessDay(date(2024, time.June, 27)))
		assert.Equal(t, date(2024, time.July, 1), cal.NextBusinessDay(date(2024, time.June, 28)))
	})

	t.Run("previous is strictly before", func(t *testing.T) {
		assert.Equal(t, date(2024, time.June, 27), cal.PreviousBusinessDay(date(2024, time.July, 1)))
		assert.Equal(t, date(2024, time.June, 27), cal.PreviousBusinessDay(date(2024, time.June, 28)))
	})
}

func TestAddBusinessDays(t *testing.T) {
	cal := testCalendar()

	assert.Equal(t, date(2024, time.July, 2), cal.AddBusinessDays(date(2024, time.June, 27), 2))
	assert.Equal(t, date(2024, time.June, 26), cal.AddBusinessDays(date(2024, time.July, 1), -2))
	unadjusted := date(2024, time.June, 29)
	assert.Equal(t, unadjusted, cal.AddBusinessDays(unadjusted, 0), "zero keeps non-business day")
}

func TestAdjust(t *testing.T) {
	cal := testCalendar()

	t.Run("business day is never moved", func(t *testing.T) {
		d := date(2024, time.June, 27)
		for _, conv := range []Adjustment{NoAdjustment, Following, Preceding, ModifiedFollowing, ModifiedPreceding} {
			assert.Equal(t, d, cal.Adjust(d, conv), conv.String())
		}
	})

	t.Run("no_adjustment keeps holidays", func(t *testing.T) {
		d := date(2024, time.June, 29)
		assert.Equal(t, d, cal.Adjust(d, NoAdjustment))
	})

	t.Run("following and preceding", func(t *testing.T) {
		d := date(2024, time.June, 29)
		assert.Equal(t, date(2024, time.July, 1), cal.Adjust(d, Following))
		assert.Equal(t, date(2024, time.June, 27), cal.Adjust(d, Preceding))
	})

	t.Run("modified_following rolls back at month end", func(t *testing.T) {
		// Saturday Jun 29: following lands in July, so roll back instead.
		assert.Equal(t, date(2024, time.June, 27), cal.Adjust(date(2024, time.June, 29), ModifiedFollowing))
		// Saturday Jun 15: following stays in June.
		assert.Equal(t, date(2024, time.June, 17), cal.Adjust(date(2024, time.June, 15), ModifiedFollowing))
	})

	t.Run("modified_preceding rolls forward at month start", func(t *testing.T) {
		// Monday Jan 1 holiday: preceding lands in December, so roll forward.
		assert.Equal(t, date(2024, time.January, 2), cal.Adjust(date(2024, time.January, 1), ModifiedPreceding))
		// Saturday Jun 15: preceding stays in June.
		assert.Equal(t, date(2024, time.June, 14), cal.Adjust(date(2024, time.June, 15), ModifiedPreceding))
	})
}
