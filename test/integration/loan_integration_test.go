//go:build integration

package integration

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/service"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/infrastructure/postgres"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/businessday"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/daycount"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/testutil"
)

func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "internal", "infrastructure", "postgres", "migrations")
}

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pg := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { pg.Cleanup(t) })

	pg.RunMigrations(t, migrationsDir())

	return pg.Pool
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedTerms(t *testing.T) model.LoanTerms {
	t.Helper()
	terms, err := model.NewLoanTerms(
		dec("100000"), "INR", dec("12"),
		valueobject.RateBasisFixed, daycount.Thirty360, daycount.Monthly,
		12, date(2024, 1, 1), "", businessday.NoAdjustment,
		valueobject.StandardVariant(), valueobject.Moratorium{}, nil,
	)
	require.NoError(t, err)
	return terms
}

// newTestLoan books a loan with a freshly generated schedule, the way the
// disbursement use case does.
func newTestLoan(t *testing.T, terms model.LoanTerms, rate decimal.Decimal) model.Loan {
	t.Helper()
	rows, err := service.NewScheduleGenerator().Generate(terms, rate, nil)
	require.NoError(t, err)
	loan, err := model.NewLoan("borrower-7", terms, rate, rows, date(2024, 1, 1))
	require.NoError(t, err)
	return loan
}

func TestLoanRepository_SaveAndFind(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewLoanRepo(pool)
	ctx := context.Background()

	loan := newTestLoan(t, fixedTerms(t), dec("12"))
	require.NoError(t, repo.Save(ctx, loan))

	retrieved, err := repo.FindByID(ctx, loan.ID())
	require.NoError(t, err)

	assert.Equal(t, loan.ID(), retrieved.ID())
	assert.Equal(t, "borrower-7", retrieved.BorrowerID())
	assert.Equal(t, valueobject.LoanStatusActive, retrieved.Status())
	assert.Equal(t, 1, retrieved.Version())
	assert.True(t, dec("100000").Equal(retrieved.PrincipalOutstanding()))

	terms := retrieved.Terms()
	assert.True(t, dec("12").Equal(terms.AnnualRate()))
	assert.Equal(t, "INR", terms.Currency().Code())
	assert.Equal(t, 12, terms.TenureMonths())
	assert.True(t, terms.StartDate().Equal(date(2024, 1, 1)))

	rows := retrieved.Installments()
	require.Len(t, rows, 12)
	assert.True(t, rows[0].DueDate.Equal(date(2024, 2, 1)))
	assert.True(t, rows[11].ClosingBalance.IsZero(),
		"final installment must close the balance exactly")
	assert.True(t, retrieved.NextDueDate().Equal(date(2024, 2, 1)))

	_, err = repo.FindByID(ctx, "does-not-exist")
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestLoanRepository_FloatingTermsRoundTrip(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewLoanRepo(pool)
	ctx := context.Background()

	floorRate := dec("8")
	capRate := dec("14")
	floating, err := model.NewFloatingRateTerms(
		"MCLR-1Y", dec("2.25"), &floorRate, &capRate,
		daycount.Quarterly, date(2024, 4, 1),
	)
	require.NoError(t, err)
	terms, err := model.NewLoanTerms(
		dec("500000"), "INR", dec("10.8"),
		valueobject.RateBasisFloating, daycount.Act365, daycount.Monthly,
		12, date(2024, 1, 1), "", businessday.NoAdjustment,
		valueobject.StandardVariant(), valueobject.Moratorium{}, &floating,
	)
	require.NoError(t, err)

	loan := newTestLoan(t, terms, dec("10.8"))
	require.NoError(t, repo.Save(ctx, loan))

	retrieved, err := repo.FindByID(ctx, loan.ID())
	require.NoError(t, err)

	got, ok := retrieved.Terms().Floating()
	require.True(t, ok, "floating linkage must survive the round trip")
	assert.Equal(t, "MCLR-1Y", got.Benchmark())
	assert.True(t, dec("2.25").Equal(got.Spread()))
	gotFloor, ok := got.Floor()
	require.True(t, ok)
	assert.True(t, dec("8").Equal(gotFloor))
	gotCap, ok := got.Cap()
	require.True(t, ok)
	assert.True(t, dec("14").Equal(gotCap))
	assert.Equal(t, daycount.Quarterly, got.ResetFrequency())
	assert.True(t, got.FirstResetDate().Equal(date(2024, 4, 1)))

	assert.True(t, dec("10.8").Equal(retrieved.CurrentRate()))
	assert.True(t, retrieved.NextResetDate().Equal(date(2024, 4, 1)))
}

func TestLoanRepository_OptimisticLocking(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewLoanRepo(pool)
	ctx := context.Background()

	loan := newTestLoan(t, fixedTerms(t), dec("12"))
	require.NoError(t, repo.Save(ctx, loan))

	// Both copies carry version 1; the second save must lose.
	first, err := repo.FindByID(ctx, loan.ID())
	require.NoError(t, err)

	updated := first.Reclassify(5, date(2024, 2, 6), date(2024, 2, 6))
	require.NoError(t, repo.Save(ctx, updated))

	current, err := repo.FindByID(ctx, loan.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, current.Version())
	assert.Equal(t, 5, current.DaysPastDue())

	stale := first.Reclassify(7, date(2024, 2, 8), date(2024, 2, 8))
	err = repo.Save(ctx, stale)
	require.ErrorIs(t, err, port.ErrVersionConflict)
}

func TestLoanRepository_SaveWithPayment(t *testing.T) {
	pool := setupTestDB(t)
	loans := postgres.NewLoanRepo(pool)
	payments := postgres.NewPaymentRepo(pool)
	ctx := context.Background()

	loan := newTestLoan(t, fixedTerms(t), dec("12"))
	require.NoError(t, loans.Save(ctx, loan))

	now := date(2024, 2, 1)
	payment, err := model.NewPayment(loan.ID(), dec("9000"), "INR", "GW-REF-42", now, now)
	require.NoError(t, err)

	rows, allocations, unallocated := service.NewAllocationEngine().Allocate(payment.Amount(), loan.Installments())
	payment = payment.WithAllocations(allocations, unallocated, now)
	paid, err := loan.ApplyPayment(payment, rows, now)
	require.NoError(t, err)

	require.NoError(t, loans.SaveWithPayment(ctx, paid, payment))

	retrieved, err := payments.FindByReference(ctx, loan.ID(), "GW-REF-42")
	require.NoError(t, err)
	assert.Equal(t, payment.ID(), retrieved.ID())
	assert.Equal(t, loan.ID(), retrieved.LoanID())
	assert.True(t, dec("9000").Equal(retrieved.Amount()))
	assert.False(t, retrieved.IsReversed())
	require.NotEmpty(t, retrieved.Allocations())
	assert.True(t, retrieved.AllocatedAmount().Add(retrieved.Unallocated()).Equal(dec("9000")),
		"allocations and remainder must account for the full amount")

	byID, err := payments.FindByID(ctx, payment.ID())
	require.NoError(t, err)
	assert.Equal(t, payment.ID(), byID.ID())

	_, err = payments.FindByReference(ctx, loan.ID(), "no-such-ref")
	assert.ErrorIs(t, err, port.ErrNotFound)

	ids, err := loans.ActiveLoanIDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, loan.ID())
}

func TestBenchmarkRateRepository_Latest(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewBenchmarkRateRepo(pool)
	ctx := context.Background()

	now := date(2024, 1, 1)
	for _, fixing := range []struct {
		effective time.Time
		rate      string
	}{
		{date(2024, 1, 1), "8.25"},
		{date(2024, 4, 1), "8.40"},
	} {
		rate, err := model.NewBenchmarkRate("MCLR-1Y", fixing.effective, dec(fixing.rate), now)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, rate))
	}

	mid, err := repo.Latest(ctx, "MCLR-1Y", date(2024, 3, 15))
	require.NoError(t, err)
	assert.True(t, dec("8.25").Equal(mid.Rate()))
	assert.True(t, mid.EffectiveDate().Equal(date(2024, 1, 1)))

	onReset, err := repo.Latest(ctx, "MCLR-1Y", date(2024, 4, 1))
	require.NoError(t, err)
	assert.True(t, dec("8.40").Equal(onReset.Rate()))

	_, err = repo.Latest(ctx, "MCLR-1Y", date(2023, 12, 31))
	assert.ErrorIs(t, err, port.ErrNotFound)

	// A corrected fixing for an existing date replaces the stored rate.
	corrected, err := model.NewBenchmarkRate("MCLR-1Y", date(2024, 4, 1), dec("8.50"), now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, corrected))

	latest, err := repo.Latest(ctx, "MCLR-1Y", date(2024, 4, 10))
	require.NoError(t, err)
	assert.True(t, dec("8.50").Equal(latest.Rate()))
}

func TestSnapshotRepository_IdempotentPerDay(t *testing.T) {
	pool := setupTestDB(t)
	loans := postgres.NewLoanRepo(pool)
	repo := postgres.NewSnapshotRepo(pool)
	ctx := context.Background()

	loan := newTestLoan(t, fixedTerms(t), dec("12"))
	require.NoError(t, loans.Save(ctx, loan))

	asOf := date(2024, 6, 15)
	first, err := model.NewDelinquencySnapshot(
		loan.ID(), asOf, 45, valueobject.BucketForDPD(45),
		dec("800"), dec("200"), decimal.Zero,
		date(2024, 5, 1), false, asOf,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	// A rerun for the same business date must not produce a second row.
	rerun, err := model.NewDelinquencySnapshot(
		loan.ID(), asOf, 46, valueobject.BucketForDPD(46),
		dec("800"), dec("210"), decimal.Zero,
		date(2024, 5, 1), false, asOf,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rerun))

	stored, err := repo.FindByLoanAndDate(ctx, loan.ID(), asOf)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), stored.ID())
	assert.Equal(t, 45, stored.DaysPastDue())
	assert.Equal(t, "31-60", stored.Bucket().String())
	assert.True(t, dec("800").Equal(stored.PrincipalOverdue()))
	assert.True(t, stored.OldestUnpaidDueDate().Equal(date(2024, 5, 1)))

	all, err := repo.FindByLoanID(ctx, loan.ID())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.FindByLoanAndDate(ctx, loan.ID(), date(2024, 6, 16))
	assert.ErrorIs(t, err, port.ErrNotFound)
}
