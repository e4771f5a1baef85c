package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
)

// BenchmarkRateRepo implements port.BenchmarkRateRepository.
type BenchmarkRateRepo struct {
	pool *pgxpool.Pool
}

// NewBenchmarkRateRepo creates a new PostgreSQL-backed fixing store.
func NewBenchmarkRateRepo(pool *pgxpool.Pool) *BenchmarkRateRepo {
	return &BenchmarkRateRepo{pool: pool}
}

// Save stores a fixing. Re-publishing the same effective date replaces the
// rate, so a corrected fixing wins.
func (r *BenchmarkRateRepo) Save(ctx context.Context, rate model.BenchmarkRate) error {
	query := `
		INSERT INTO benchmark_rates (benchmark, effective_date, rate, created_at)
		VALUES ($1, $2::date, $3, $4)
		ON CONFLICT (benchmark, effective_date) DO UPDATE SET
			rate = EXCLUDED.rate
	`
	_, err := r.pool.Exec(ctx, query,
		rate.Benchmark(), rate.EffectiveDate(), rate.Rate(), rate.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save benchmark rate: %w", err)
	}
	return nil
}

// Latest returns the fixing with the greatest effective date at or before
// asOf, or port.ErrNotFound when no fixing qualifies.
func (r *BenchmarkRateRepo) Latest(ctx context.Context, benchmark string, asOf time.Time) (model.BenchmarkRate, error) {
	query := `
		SELECT benchmark, effective_date, rate, created_at
		FROM benchmark_rates
		WHERE benchmark = $1 AND effective_date <= $2::date
		ORDER BY effective_date DESC
		LIMIT 1
	`
	var (
		name          string
		effectiveDate time.Time
		value         decimal.Decimal
		createdAt     time.Time
	)
	err := r.pool.QueryRow(ctx, query, benchmark, asOf).Scan(&name, &effectiveDate, &value, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.BenchmarkRate{}, port.ErrNotFound
	}
	if err != nil {
		return model.BenchmarkRate{}, fmt.Errorf("scan benchmark rate: %w", err)
	}
	return model.ReconstructBenchmarkRate(name, effectiveDate, value, createdAt), nil
}
