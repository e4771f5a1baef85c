package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/businessday"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/daycount"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ---------------------------------------------------------------------------
// ScheduleGenerator – amortization schedules for every supported shape
// ---------------------------------------------------------------------------

// ScheduleGenerator turns loan terms into repayment schedules. All monetary
// amounts are rounded to cents; rate arithmetic stays in decimal end to end,
// and the final installment absorbs residual rounding so principal dues
// always sum back to the amortized amount exactly.
type ScheduleGenerator struct{}

// NewScheduleGenerator creates a schedule generator.
func NewScheduleGenerator() *ScheduleGenerator {
	return &ScheduleGenerator{}
}

// Generate produces the full schedule for freshly disbursed terms at the
// given effective annual rate. Due dates are rolled with the calendar and
// the terms' adjustment convention before the schedule is returned.
//
// When the terms carry a moratorium, the first periods are overlaid per the
// moratorium kind and the remaining periods re-amortize whatever balance is
// left, including interest capitalized during a full moratorium when the
// treatment asks for it.
func (g *ScheduleGenerator) Generate(
	terms model.LoanTerms,
	annualRate decimal.Decimal,
	cal *businessday.Calendar,
) ([]model.Installment, error) {
	if annualRate.IsNegative() {
		return nil, valueobject.NewConfigurationError("annual_rate", "must not be negative")
	}
	cal = defaultCalendar(cal)
	n := terms.Periods()

	moratoriumPeriods := 0
	if m := terms.Moratorium(); !m.IsZero() {
		moratoriumPeriods = daycount.PeriodsForMonths(m.Months(), terms.Frequency())
		if moratoriumPeriods >= n {
			return nil, valueobject.NewConfigurationError("moratorium_months", "must leave at least one repayment period")
		}
	}

	rows, err := g.buildRows(terms, annualRate, cal, terms.Principal(), 1, n)
	if err != nil {
		return nil, err
	}
	if moratoriumPeriods == 0 {
		return rows, nil
	}

	overlaid, _ := ApplyMoratorium(rows, terms.Moratorium(), terms.Frequency())
	head := overlaid[:moratoriumPeriods]

	// Rebuild the moratorium rows against a balance that is not being
	// amortized: it stays flat unless waived interest capitalizes, in
	// which case each row's zeroed interest rolls into it.
	capitalize := terms.Moratorium().Kind().Equal(valueobject.MoratoriumKindFull) &&
		terms.Moratorium().Treatment().Equal(valueobject.InterestTreatmentCapitalize)
	chargeInterest := terms.Moratorium().Kind().Equal(valueobject.MoratoriumKindPrincipalOnly)
	r := periodicRate(annualRate, terms.Frequency())

	balance := terms.Principal()
	for i := range head {
		head[i].OpeningBalance = balance
		if chargeInterest {
			head[i].InterestDue = periodInterest(balance, annualRate, r, head[i].PeriodStart, head[i].PeriodEnd, terms.DayCount())
			head[i].TotalDue = head[i].InterestDue.Add(head[i].FeesDue)
		}
		if capitalize {
			balance = balance.Add(rows[i].InterestDue)
		}
		head[i].ClosingBalance = balance
	}

	tail, err := g.buildRows(terms, annualRate, cal, balance, moratoriumPeriods+1, n)
	if err != nil {
		return nil, err
	}
	return append(head, tail...), nil
}

// Regenerate re-amortizes the unpaid remainder of a schedule at the given
// annual rate, preserving every settled, partially paid or moratorium row
// along with all period dates. It returns the new schedule and the number
// of the first regenerated installment, or 0 when nothing qualifies.
func (g *ScheduleGenerator) Regenerate(
	terms model.LoanTerms,
	annualRate decimal.Decimal,
	cal *businessday.Calendar,
	installments []model.Installment,
) ([]model.Installment, int, error) {
	out := model.CloneInstallments(installments)
	if len(out) == 0 {
		return out, 0, nil
	}
	cal = defaultCalendar(cal)

	// The regenerable tail is the maximal suffix of untouched, unsettled,
	// non-moratorium rows. Strictly ordered allocation guarantees touched
	// rows form a prefix, so this is also the first such row.
	tailStart := len(out)
	for tailStart > 0 {
		row := out[tailStart-1]
		if row.IsMoratorium || row.IsSettled() || row.AmountPaid().IsPositive() {
			break
		}
		tailStart--
	}
	if tailStart == len(out) {
		return out, 0, nil
	}

	opening := out[tailStart].OpeningBalance
	tail, err := g.buildRows(terms, annualRate, cal, opening, tailStart+1, len(out))
	if err != nil {
		return nil, 0, err
	}
	return append(out[:tailStart], tail...), tailStart + 1, nil
}

// ---------------------------------------------------------------------------
// Moratorium overlay
// ---------------------------------------------------------------------------

// MoratoriumTotals reports the amounts zeroed by a moratorium overlay. When
// the interest treatment is capitalize, WaivedInterest is the amount the
// caller rolls into principal.
type MoratoriumTotals struct {
	WaivedPrincipal decimal.Decimal
	WaivedInterest  decimal.Decimal
}

// ApplyMoratorium zeroes the leading moratorium periods of a generated
// schedule and marks them. A full moratorium zeroes both principal and
// interest; a principal-only moratorium zeroes principal and charges
// interest in full. The overlay never redistributes amounts into later
// rows; that is the caller's job, using the returned totals. A zero-month
// moratorium returns the input unchanged.
func ApplyMoratorium(
	installments []model.Installment,
	m valueobject.Moratorium,
	frequency daycount.Frequency,
) ([]model.Installment, MoratoriumTotals) {
	totals := MoratoriumTotals{WaivedPrincipal: decimal.Zero, WaivedInterest: decimal.Zero}
	out := model.CloneInstallments(installments)
	if m.IsZero() {
		return out, totals
	}

	periods := daycount.PeriodsForMonths(m.Months(), frequency)
	if periods > len(out) {
		periods = len(out)
	}
	for i := 0; i < periods; i++ {
		row := &out[i]
		totals.WaivedPrincipal = totals.WaivedPrincipal.Add(row.PrincipalDue)
		row.PrincipalDue = decimal.Zero
		if m.Kind().Equal(valueobject.MoratoriumKindFull) {
			totals.WaivedInterest = totals.WaivedInterest.Add(row.InterestDue)
			row.InterestDue = decimal.Zero
		}
		row.IsMoratorium = true
		row.TotalDue = row.PrincipalDue.Add(row.InterestDue).Add(row.FeesDue)
	}
	return out, totals
}

// ---------------------------------------------------------------------------
// internals
// ---------------------------------------------------------------------------

// buildRows amortizes a balance across the absolute period indexes
// [from, to] of the terms' timeline. Both fresh generation and tail
// regeneration go through here, so dates depend only on the terms and the
// calendar, never on previous schedule state.
func (g *ScheduleGenerator) buildRows(
	terms model.LoanTerms,
	annualRate decimal.Decimal,
	cal *businessday.Calendar,
	opening decimal.Decimal,
	from, to int,
) ([]model.Installment, error) {
	freq := terms.Frequency()
	r := periodicRate(annualRate, freq)
	count := to - from + 1

	balloon, hasBalloon, err := resolveBalloon(terms)
	if err != nil {
		return nil, err
	}
	base := basePayment(opening, r, count, balloon, hasBalloon)

	variant := terms.Variant()
	stepFactor := one
	periodsPerStep := 0
	switch variant.Kind() {
	case valueobject.ScheduleKindStepUp:
		stepFactor = one.Add(variant.StepPercent().Div(hundred))
		periodsPerStep = stepPeriods(variant.StepEveryMonths(), freq)
	case valueobject.ScheduleKindStepDown:
		stepFactor = one.Sub(variant.StepPercent().Div(hundred))
		periodsPerStep = stepPeriods(variant.StepEveryMonths(), freq)
	}

	rows := make([]model.Installment, 0, count)
	start := terms.StartDate()
	balance := opening

	maxDrift := decimal.NewFromInt(int64(count)).Div(hundred)

	for i := from; i <= to; i++ {
		periodStart := daycount.AddPeriod(start, freq, i-1)
		periodEnd := daycount.AddPeriod(start, freq, i)
		interest := periodInterest(balance, annualRate, r, periodStart, periodEnd, terms.DayCount())

		stepNumber := 0
		if periodsPerStep > 0 {
			stepNumber = (i - 1) / periodsPerStep
		}

		payment := base
		if stepNumber > 0 {
			payment = base.Mul(stepFactor.Pow(decimal.NewFromInt(int64(stepNumber)))).Round(2)
		}

		var principal decimal.Decimal
		if i == to {
			// The final installment absorbs all residual rounding: its
			// principal repays the remaining balance exactly, and on
			// interest-bearing level schedules its interest takes up the
			// accumulated rounding drift so the last total still equals the
			// payment. Drift beyond a cent per period means the balance
			// diverged from the annuity, so accrued interest stands.
			principal = balance
			if !r.IsZero() && !hasBalloon {
				absorbed := payment.Sub(balance)
				if !absorbed.IsNegative() && absorbed.Sub(interest).Abs().LessThanOrEqual(maxDrift) {
					interest = absorbed
				}
			}
		} else {
			principal = payment.Sub(interest)
			if principal.GreaterThan(balance) {
				principal = balance
			}
		}

		openingBalance := balance
		balance = balance.Sub(principal)

		rows = append(rows, model.Installment{
			Number:         i,
			DueDate:        cal.Adjust(periodEnd, terms.Adjustment()),
			PeriodStart:    periodStart,
			PeriodEnd:      periodEnd,
			OpeningBalance: openingBalance,
			PrincipalDue:   principal,
			InterestDue:    interest,
			FeesDue:        decimal.Zero,
			TotalDue:       principal.Add(interest),
			ClosingBalance: balance,
			StepNumber:     stepNumber,
			Status:         valueobject.InstallmentStatusPending,
		})
	}
	return rows, nil
}

// basePayment sizes the level payment for a run of periods. With a balloon,
// the run's last period repays the balloon and the remaining periods
// amortize down to it.
func basePayment(opening, r decimal.Decimal, count int, balloon decimal.Decimal, hasBalloon bool) decimal.Decimal {
	if hasBalloon {
		m := count - 1
		if m == 0 {
			return decimal.Zero
		}
		var base decimal.Decimal
		if r.IsZero() {
			base = opening.Sub(balloon).Div(decimal.NewFromInt(int64(m)))
		} else {
			pow := one.Add(r).Pow(decimal.NewFromInt(int64(m)))
			base = opening.Mul(pow).Sub(balloon).Mul(r).Div(pow.Sub(one))
		}
		if base.IsNegative() {
			base = decimal.Zero
		}
		return base.Round(2)
	}

	if r.IsZero() {
		return opening.Div(decimal.NewFromInt(int64(count))).Round(2)
	}
	pow := one.Add(r).Pow(decimal.NewFromInt(int64(count)))
	return opening.Mul(r).Mul(pow).Div(pow.Sub(one)).Round(2)
}

// periodInterest accrues one period of interest on a balance. Act/act terms
// accrue on the actual period against the annual rate; every other
// convention uses the flat periodic rate.
func periodInterest(balance, annualRate, periodicRate decimal.Decimal, periodStart, periodEnd time.Time, conv daycount.Convention) decimal.Decimal {
	if conv.Equal(daycount.ActAct) {
		yf := daycount.YearFraction(periodStart, periodEnd, conv)
		return balance.Mul(annualRate).Div(hundred).Mul(yf).Round(2)
	}
	return balance.Mul(periodicRate).Round(2)
}

func periodicRate(annualRate decimal.Decimal, freq daycount.Frequency) decimal.Decimal {
	return annualRate.Div(hundred).Div(decimal.NewFromInt(int64(freq.PeriodsPerYear())))
}

// resolveBalloon resolves a balloon variant to a concrete amount: the
// larger of the explicit amount and the percentage of original principal.
func resolveBalloon(terms model.LoanTerms) (decimal.Decimal, bool, error) {
	v := terms.Variant()
	if !v.Kind().Equal(valueobject.ScheduleKindBalloon) {
		return decimal.Zero, false, nil
	}
	amount := v.BalloonAmount()
	if pct := v.BalloonPercent(); pct.IsPositive() {
		fromPct := terms.Principal().Mul(pct).Div(hundred)
		if fromPct.GreaterThan(amount) {
			amount = fromPct
		}
	}
	if !amount.IsPositive() {
		return decimal.Zero, false, valueobject.NewConfigurationError("balloon", "requires a balloon amount or percent")
	}
	if amount.GreaterThanOrEqual(terms.Principal()) {
		return decimal.Zero, false, valueobject.NewConfigurationError("balloon", "must be smaller than the principal")
	}
	return amount, true, nil
}

// stepPeriods converts a step interval in months to whole periods, never
// fewer than one.
func stepPeriods(months int, freq daycount.Frequency) int {
	periods := daycount.PeriodsForMonths(months, freq)
	if periods < 1 {
		periods = 1
	}
	return periods
}

func defaultCalendar(cal *businessday.Calendar) *businessday.Calendar {
	if cal == nil {
		return businessday.NewCalendar("default", nil)
	}
	return cal
}
