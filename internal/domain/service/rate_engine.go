package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/daycount"
)

// ErrRateNotFound is returned when a floating loan's benchmark has no fixing
// on or before the requested date. It is surfaced to the caller, never
// silently defaulted.
var ErrRateNotFound = errors.New("no benchmark rate on or before the requested date")

// ratePrecision is the decimal precision effective rates are kept at.
const ratePrecision = 6

// ---------------------------------------------------------------------------
// RateEngine – effective-rate resolution and resets
// ---------------------------------------------------------------------------

// RateEngine resolves the effective annual rate for a loan as of a date and
// applies scheduled resets. Fixed loans and floating loans without a
// benchmark keep their stored rate; benchmark-linked loans track the latest
// fixing plus spread, clamped to the configured floor and cap.
type RateEngine struct {
	benchmarks port.BenchmarkRateRepository
}

// NewRateEngine creates a rate engine over a benchmark-rate store.
func NewRateEngine(benchmarks port.BenchmarkRateRepository) *RateEngine {
	return &RateEngine{benchmarks: benchmarks}
}

// EffectiveRate returns the annual percentage rate the terms price at as of
// the given date, at 6-decimal precision.
func (e *RateEngine) EffectiveRate(ctx context.Context, terms model.LoanTerms, asOf time.Time) (decimal.Decimal, error) {
	if !terms.IsFloating() {
		return terms.AnnualRate().Round(ratePrecision), nil
	}
	floating, ok := terms.Floating()
	if !ok || !floating.HasBenchmark() {
		// Floating without a benchmark falls back to the stored rate.
		return terms.AnnualRate().Round(ratePrecision), nil
	}

	fixing, err := e.benchmarks.Latest(ctx, floating.Benchmark(), asOf)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: %s as of %s", ErrRateNotFound, floating.Benchmark(), asOf.Format("2006-01-02"))
		}
		return decimal.Zero, fmt.Errorf("lookup benchmark %s: %w", floating.Benchmark(), err)
	}

	rate := fixing.Rate().Add(floating.Spread())
	if floor, ok := floating.Floor(); ok && rate.LessThan(floor) {
		rate = floor
	}
	if cap, ok := floating.Cap(); ok && rate.GreaterThan(cap) {
		rate = cap
	}
	return rate.Round(ratePrecision), nil
}

// ResetDue reports whether the loan's next scheduled rate reset has been
// reached on asOf. Only floating loans with a configured next reset date
// ever come due.
func (e *RateEngine) ResetDue(loan model.Loan, asOf time.Time) bool {
	return loan.RateResetDue(asOf)
}

// ApplyReset recomputes the effective rate as of the reset date, stores it
// as the loan's current rate, and advances the next reset date by one reset
// period. The schedule is untouched; re-amortizing remaining installments
// is a separate operation the caller must request.
func (e *RateEngine) ApplyReset(ctx context.Context, loan model.Loan, resetDate, now time.Time) (model.Loan, error) {
	rate, err := e.EffectiveRate(ctx, loan.Terms(), resetDate)
	if err != nil {
		return loan, err
	}

	var nextReset time.Time
	if floating, ok := loan.Terms().Floating(); ok {
		nextReset = daycount.AddPeriod(resetDate, floating.ResetFrequency(), 1)
	}
	return loan.ApplyRateReset(rate, resetDate, nextReset, now)
}
