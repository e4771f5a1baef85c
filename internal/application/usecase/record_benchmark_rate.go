package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/dto"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
)

// RecordBenchmarkRateUseCase stores a published fixing of a reference rate.
// Loans linked to the benchmark pick the fixing up at their next reset.
type RecordBenchmarkRateUseCase struct {
	benchmarks port.BenchmarkRateRepository
}

// NewRecordBenchmarkRateUseCase wires dependencies.
func NewRecordBenchmarkRateUseCase(benchmarks port.BenchmarkRateRepository) *RecordBenchmarkRateUseCase {
	return &RecordBenchmarkRateUseCase{benchmarks: benchmarks}
}

// Execute records a benchmark fixing.
func (uc *RecordBenchmarkRateUseCase) Execute(
	ctx context.Context,
	req dto.RecordBenchmarkRateRequest,
) (dto.BenchmarkRateResponse, error) {
	now := time.Now().UTC()

	rate, err := model.NewBenchmarkRate(req.Benchmark, req.EffectiveDate, req.Rate, now)
	if err != nil {
		return dto.BenchmarkRateResponse{}, fmt.Errorf("create benchmark rate: %w", err)
	}
	if err := uc.benchmarks.Save(ctx, rate); err != nil {
		return dto.BenchmarkRateResponse{}, fmt.Errorf("save benchmark rate: %w", err)
	}

	return dto.BenchmarkRateResponse{
		Benchmark:     rate.Benchmark(),
		EffectiveDate: rate.EffectiveDate(),
		Rate:          rate.Rate(),
		CreatedAt:     rate.CreatedAt(),
	}, nil
}
