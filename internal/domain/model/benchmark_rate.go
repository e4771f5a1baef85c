package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
)

// BenchmarkRate is one published fixing of a reference rate, effective from
// its effective date until a later fixing supersedes it. Negative rates are
// valid; several major benchmarks have printed below zero.
type BenchmarkRate struct {
	benchmark     string
	effectiveDate time.Time
	rate          decimal.Decimal
	createdAt     time.Time
}

// NewBenchmarkRate validates and records a fixing.
func NewBenchmarkRate(benchmark string, effectiveDate time.Time, rate decimal.Decimal, now time.Time) (BenchmarkRate, error) {
	if benchmark == "" {
		return BenchmarkRate{}, valueobject.NewConfigurationError("benchmark", "is required")
	}
	if effectiveDate.IsZero() {
		return BenchmarkRate{}, valueobject.NewConfigurationError("effective_date", "is required")
	}
	return BenchmarkRate{
		benchmark:     benchmark,
		effectiveDate: effectiveDate,
		rate:          rate,
		createdAt:     now,
	}, nil
}

// ReconstructBenchmarkRate rebuilds a fixing from persistence.
func ReconstructBenchmarkRate(benchmark string, effectiveDate time.Time, rate decimal.Decimal, createdAt time.Time) BenchmarkRate {
	return BenchmarkRate{
		benchmark:     benchmark,
		effectiveDate: effectiveDate,
		rate:          rate,
		createdAt:     createdAt,
	}
}

func (b BenchmarkRate) Benchmark() string        { return b.benchmark }
func (b BenchmarkRate) EffectiveDate() time.Time { return b.effectiveDate }
func (b BenchmarkRate) Rate() decimal.Decimal    { return b.rate }
func (b BenchmarkRate) CreatedAt() time.Time     { return b.createdAt }
