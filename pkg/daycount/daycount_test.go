package daycount

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseConvention(t *testing.T) {
	t.Run("accepts supported conventions", func(t *testing.T) {
		for _, s := range []string{"30/360", "act/360", "act/365", "act/act", " ACT/ACT "} {
			c, err := ParseConvention(s)
			require.NoError(t, err, "convention %q", s)
			assert.False(t, c.IsZero())
		}
	})

	t.Run("rejects unknown convention", func(t *testing.T) {
		_, err := ParseConvention("act/364")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported day count convention")
	})
}

func TestYearFraction_Thirty360(t *testing.T) {
	t.Run("end of January to end of February", func(t *testing.T) {
		// 2024-01-31 counts as day 30, 2024-02-28 stays 28: 28 thirty-day
		// basis days.
		got := YearFraction(date(2024, time.January, 31), date(2024, time.February, 28), Thirty360)
		want := decimal.NewFromInt(28).Div(decimal.NewFromInt(360))
		assert.True(t, got.Equal(want), "got %s want %s", got, want)
	})

	t.Run("31st to 31st counts full months", func(t *testing.T) {
		got := YearFraction(date(2024, time.January, 31), date(2024, time.March, 31), Thirty360)
		want := decimal.NewFromInt(60).Div(decimal.NewFromInt(360))
		assert.True(t, got.Equal(want), "got %s want %s", got, want)
	})

	t.Run("one exact year", func(t *testing.T) {
		got := YearFraction(date(2024, time.March, 15), date(2025, time.March, 15), Thirty360)
		assert.True(t, got.Equal(decimal.NewFromInt(1)), "got %s", got)
	})
}

func TestYearFraction_Actual(t *testing.T) {
	start := date(2024, time.January, 1)
	end := date(2024, time.February, 1)

	t.Run("act/360", func(t *testing.T) {
		got := YearFraction(start, end, Act360)
		want := decimal.NewFromInt(31).Div(decimal.NewFromInt(360))
		assert.True(t, got.Equal(want), "got %s want %s", got, want)
	})

	t.Run("act/365 ignores leap years", func(t *testing.T) {
		got := YearFraction(start, end, Act365)
		want := decimal.NewFromInt(31).Div(decimal.NewFromInt(365))
		assert.True(t, got.Equal(want), "got %s want %s", got, want)
	})
}

func TestYearFraction_ActAct(t *testing.T) {
	t.Run("splits across a leap year boundary", func(t *testing.T) {
		got := YearFraction(date(2023, time.December, 20), date(2024, time.January, 10), ActAct)
		want := decimal.NewFromInt(11).Div(decimal.NewFromInt(365)).
			Add(decimal.NewFromInt(10).Div(decimal.NewFromInt(366)))
		assert.True(t, got.Equal(want), "got %s want %s", got, want)
	})

	t.Run("single year span", func(t *testing.T) {
		got := YearFraction(date(2024, time.March, 1), date(2024, time.April, 1), ActAct)
		want := decimal.NewFromInt(31).Div(decimal.NewFromInt(366))
		assert.True(t, got.Equal(want), "got %s want %s", got, want)
	})
}

func TestYearFraction_DegenerateSpans(t *testing.T) {
	d := date(2024, time.June, 1)

	for _, c := range []Convention{Thirty360, Act360, Act365, ActAct} {
		assert.True(t, YearFraction(d, d, c).IsZero(), "%s: equal dates", c)
		assert.True(t, YearFraction(d, d.AddDate(0, 0, -10), c).IsZero(), "%s: reversed dates", c)
	}
}

func TestParseFrequency(t *testing.T) {
	t.Run("periods per year", func(t *testing.T) {
		cases := map[string]int{
			"weekly":     52,
			"biweekly":   26,
			"monthly":    12,
			"quarterly":  4,
			"semiannual": 2,
			"annual":     1,
		}
		for s, want := range cases {
			f, err := ParseFrequency(s)
			require.NoError(t, err, "frequency %q", s)
			assert.Equal(t, want, f.PeriodsPerYear(), "frequency %q", s)
		}
	})

	t.Run("rejects unknown frequency", func(t *testing.T) {
		_, err := ParseFrequency("fortnightly")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported repayment frequency")
	})
}

func TestAddPeriod(t *testing.T) {
	t.Run("monthly clamps to last day of month", func(t *testing.T) {
		assert.Equal(t, date(2023, time.February, 28), AddPeriod(date(2023, time.January, 31), Monthly, 1))
		assert.Equal(t, date(2024, time.February, 29), AddPeriod(date(2024, time.January, 31), Monthly, 1))
	})

	t.Run("clamped month addition does not stick to month end", func(t *testing.T) {
		// Clamping applies per call; a mid-month anchor is preserved.
		assert.Equal(t, date(2024, time.April, 30), AddPeriod(date(2024, time.January, 31), Monthly, 3))
		assert.Equal(t, date(2024, time.March, 15), AddPeriod(date(2024, time.January, 15), Monthly, 2))
	})

	t.Run("quarterly and annual", func(t *testing.T) {
		assert.Equal(t, date(2024, time.April, 15), AddPeriod(date(2024, time.January, 15), Quarterly, 1))
		assert.Equal(t, date(2026, time.January, 15), AddPeriod(date(2024, time.January, 15), Annual, 2))
	})

	t.Run("weekly and biweekly use exact days", func(t *testing.T) {
		assert.Equal(t, date(2024, time.January, 8), AddPeriod(date(2024, time.January, 1), Weekly, 1))
		assert.Equal(t, date(2024, time.January, 29), AddPeriod(date(2024, time.January, 1), Biweekly, 2))
	})
}

func TestPeriodsForMonths(t *testing.T) {
	cases := []struct {
		months int
		freq   Frequency
		want   int
	}{
		{12, Monthly, 12},
		{12, Quarterly, 4},
		{18, Annual, 2},  // 1.5 rounds up
		{7, Quarterly, 2}, // 2.33 rounds down
		{8, Quarterly, 3}, // 2.67 rounds up
		{3, Weekly, 13},
		{0, Monthly, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PeriodsForMonths(tc.months, tc.freq),
			"%d months at %s", tc.months, tc.freq)
	}
}

func TestDaysInYear(t *testing.T) {
	assert.Equal(t, 366, DaysInYear(2024))
	assert.Equal(t, 365, DaysInYear(2023))
	assert.Equal(t, 365, DaysInYear(1900)) // century, not divisible by 400
	assert.Equal(t, 366, DaysInYear(2000))
}
