package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/usecase"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/event"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/service"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/businessday"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/daycount"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/money"
)

// --- Mock implementations ---

type mockLoanRepository struct {
	saveErr           error
	findByIDFunc      func(ctx context.Context, id string) (model.Loan, error)
	activeLoanIDsFunc func(ctx context.Context) ([]string, error)
	savedLoans        []model.Loan
}

func (m *mockLoanRepository) Save(_ context.Context, loan model.Loan) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedLoans = append(m.savedLoans, loan)
	return nil
}

func (m *mockLoanRepository) SaveWithPayment(_ context.Context, loan model.Loan, _ model.Payment) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedLoans = append(m.savedLoans, loan)
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id string) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, port.ErrNotFound
}

func (m *mockLoanRepository) FindByBorrowerID(_ context.Context, _ string) ([]model.Loan, error) {
	return nil, nil
}

func (m *mockLoanRepository) ActiveLoanIDs(ctx context.Context) ([]string, error) {
	if m.activeLoanIDsFunc != nil {
		return m.activeLoanIDsFunc(ctx)
	}
	return nil, nil
}

type mockPaymentRepository struct {
	findByIDFunc func(ctx context.Context, id string) (model.Payment, error)
}

func (m *mockPaymentRepository) Save(_ context.Context, _ model.Payment) error { return nil }

func (m *mockPaymentRepository) FindByID(ctx context.Context, id string) (model.Payment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Payment{}, port.ErrNotFound
}

func (m *mockPaymentRepository) FindByReference(_ context.Context, _, _ string) (model.Payment, error) {
	return model.Payment{}, port.ErrNotFound
}

func (m *mockPaymentRepository) FindByLoanID(_ context.Context, _ string) ([]model.Payment, error) {
	return nil, nil
}

type mockBenchmarkRateRepository struct {
	latestFunc func(ctx context.Context, benchmark string, asOf time.Time) (model.BenchmarkRate, error)
	savedRates []model.BenchmarkRate
}

func (m *mockBenchmarkRateRepository) Save(_ context.Context, rate model.BenchmarkRate) error {
	m.savedRates = append(m.savedRates, rate)
	return nil
}

func (m *mockBenchmarkRateRepository) Latest(ctx context.Context, benchmark string, asOf time.Time) (model.BenchmarkRate, error) {
	if m.latestFunc != nil {
		return m.latestFunc(ctx, benchmark, asOf)
	}
	return model.BenchmarkRate{}, port.ErrNotFound
}

type mockSnapshotRepository struct {
	savedSnapshots []model.DelinquencySnapshot
}

func (m *mockSnapshotRepository) Save(_ context.Context, snapshot model.DelinquencySnapshot) error {
	m.savedSnapshots = append(m.savedSnapshots, snapshot)
	return nil
}

func (m *mockSnapshotRepository) FindByLoanAndDate(_ context.Context, loanID string, asOf time.Time) (model.DelinquencySnapshot, error) {
	// Mirror the idempotent store: the row just saved is the stored row.
	for _, s := range m.savedSnapshots {
		if s.LoanID() == loanID && s.AsOfDate().Equal(asOf) {
			return s, nil
		}
	}
	return model.DelinquencySnapshot{}, port.ErrNotFound
}

func (m *mockSnapshotRepository) FindByLoanID(_ context.Context, _ string) ([]model.DelinquencySnapshot, error) {
	return nil, nil
}

type mockCalendarSource struct{}

func (mockCalendarSource) Calendar(_ context.Context, id string) (*businessday.Calendar, error) {
	return businessday.NewCalendar(id, nil), nil
}

type mockEventPublisher struct {
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(_ context.Context, events ...event.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, events...)
	return nil
}

// --- Helpers ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type handlerMocks struct {
	loans      *mockLoanRepository
	payments   *mockPaymentRepository
	benchmarks *mockBenchmarkRateRepository
	snapshots  *mockSnapshotRepository
	publisher  *mockEventPublisher
}

func buildTestHandler() (*LoanServiceHandler, *handlerMocks) {
	m := &handlerMocks{
		loans:      &mockLoanRepository{},
		payments:   &mockPaymentRepository{},
		benchmarks: &mockBenchmarkRateRepository{},
		snapshots:  &mockSnapshotRepository{},
		publisher:  &mockEventPublisher{},
	}
	calendars := mockCalendarSource{}
	rateEngine := service.NewRateEngine(m.benchmarks)
	generator := service.NewScheduleGenerator()
	allocator := service.NewAllocationEngine()

	rateResetUC := usecase.NewApplyRateResetUseCase(m.loans, rateEngine, m.publisher)
	snapshotUC := usecase.NewSnapshotDelinquencyUseCase(
		m.loans, m.snapshots, service.NewDelinquencyClassifier(), m.publisher)

	return NewLoanServiceHandler(
		usecase.NewDisburseLoanUseCase(m.loans, calendars, rateEngine, generator, m.publisher),
		usecase.NewGetLoanUseCase(m.loans),
		usecase.NewGetScheduleUseCase(m.loans),
		usecase.NewMakePaymentUseCase(m.loans, m.payments, allocator, m.publisher),
		usecase.NewReversePaymentUseCase(m.loans, m.payments, allocator, m.publisher),
		usecase.NewRecordBenchmarkRateUseCase(m.benchmarks),
		rateResetUC,
		usecase.NewRegenerateScheduleUseCase(m.loans, calendars, generator, m.publisher),
		snapshotUC,
		usecase.NewRunEndOfDayUseCase(m.loans, rateResetUC, snapshotUC, nil, testLogger(), 1),
	), m
}

func standardWireRequest() *DisburseLoanRequest {
	return &DisburseLoanRequest{
		BorrowerID:         "borrower-001",
		Principal:          "100000",
		Currency:           "INR",
		AnnualRate:         "12",
		RateBasis:          "FIXED",
		DayCount:           "30/360",
		RepaymentFrequency: "monthly",
		BusinessDayRule:    "no_adjustment",
		TenureMonths:       12,
		StartDate:          "2024-01-01",
		ScheduleKind:       "STANDARD",
	}
}

// scheduleRow builds a pending installment with the given due components.
func scheduleRow(number int, due time.Time, fees, interest, principal string) model.Installment {
	f, i, p := dec(fees), dec(interest), dec(principal)
	return model.Installment{
		Number:        number,
		DueDate:       due,
		PeriodStart:   due.AddDate(0, -1, 0),
		PeriodEnd:     due,
		PrincipalDue:  p,
		InterestDue:   i,
		FeesDue:       f,
		TotalDue:      f.Add(i).Add(p),
		PrincipalPaid: decimal.Zero,
		InterestPaid:  decimal.Zero,
		FeesPaid:      decimal.Zero,
		Status:        valueobject.InstallmentStatusPending,
	}
}

func fixedLoanTerms(t *testing.T) model.LoanTerms {
	t.Helper()
	terms, err := model.NewLoanTerms(
		decimal.NewFromInt(1000), "INR", decimal.NewFromInt(12),
		valueobject.RateBasisFixed, daycount.Thirty360, daycount.Monthly,
		2, date(2024, 1, 1), "", businessday.NoAdjustment,
		valueobject.StandardVariant(), valueobject.Moratorium{}, nil,
	)
	require.NoError(t, err)
	return terms
}

func floatingLoanTerms(t *testing.T) model.LoanTerms {
	t.Helper()
	floating, err := model.NewFloatingRateTerms(
		"MCLR-1Y", decimal.NewFromInt(2), nil, nil,
		daycount.Monthly, date(2024, 2, 1),
	)
	require.NoError(t, err)
	terms, err := model.NewLoanTerms(
		decimal.NewFromInt(1000), "INR", decimal.NewFromInt(12),
		valueobject.RateBasisFloating, daycount.Thirty360, daycount.Monthly,
		2, date(2024, 1, 1), "", businessday.NoAdjustment,
		valueobject.StandardVariant(), valueobject.Moratorium{}, &floating,
	)
	require.NoError(t, err)
	return terms
}

// activeLoan rebuilds a persisted loan the way a repository would: no
// pending domain events.
func activeLoan(t *testing.T, terms model.LoanTerms, rows []model.Installment) model.Loan {
	t.Helper()
	now := date(2024, 1, 1)
	nextReset := time.Time{}
	if _, ok := terms.Floating(); ok {
		nextReset = date(2024, 2, 1)
	}
	return model.ReconstructLoan(
		"loan-001", "borrower-001", terms,
		decimal.NewFromInt(12), nextReset, rows,
		0, false, time.Time{}, valueobject.LoanStatusActive,
		1, now, now,
	)
}

func twoRowSchedule() []model.Installment {
	return []model.Installment{
		scheduleRow(1, date(2024, 5, 1), "0", "100", "400"),
		scheduleRow(2, date(2024, 6, 1), "0", "100", "400"),
	}
}

// --- Tests ---

func TestDisburseLoanHandler(t *testing.T) {
	t.Run("nil request returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.DisburseLoan(context.Background(), nil)
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("malformed principal returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		req := standardWireRequest()
		req.Principal = "a lot"
		_, err := h.DisburseLoan(context.Background(), req)
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "invalid principal")
	})

	t.Run("malformed start_date returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		req := standardWireRequest()
		req.StartDate = "01-01-2024"
		_, err := h.DisburseLoan(context.Background(), req)
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "invalid start_date")
	})

	t.Run("unknown rate_basis returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		req := standardWireRequest()
		req.RateBasis = "HYBRID"
		_, err := h.DisburseLoan(context.Background(), req)
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "rate_basis")
	})

	t.Run("happy path returns the loan with its schedule", func(t *testing.T) {
		h, m := buildTestHandler()
		resp, err := h.DisburseLoan(context.Background(), standardWireRequest())
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.Equal(t, 1, resp.Version)
		assert.Len(t, resp.Schedule, 12)
		assert.True(t, dec("100000").Equal(resp.PrincipalOutstanding))
		require.Len(t, m.loans.savedLoans, 1)
	})

	t.Run("repository error returns Internal", func(t *testing.T) {
		h, m := buildTestHandler()
		m.loans.saveErr = fmt.Errorf("db down")
		_, err := h.DisburseLoan(context.Background(), standardWireRequest())
		requireGRPCCode(t, err, codes.Internal)
		assert.NotContains(t, err.Error(), "db down", "internal detail must not leak")
	})
}

func TestGetLoanHandler(t *testing.T) {
	t.Run("empty loan_id returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.GetLoan(context.Background(), &GetLoanRequest{})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("unknown loan returns NotFound", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.GetLoan(context.Background(), &GetLoanRequest{LoanID: "loan-404"})
		requireGRPCCode(t, err, codes.NotFound)
	})

	t.Run("happy path returns the loan", func(t *testing.T) {
		h, m := buildTestHandler()
		loan := activeLoan(t, fixedLoanTerms(t), twoRowSchedule())
		m.loans.findByIDFunc = func(_ context.Context, id string) (model.Loan, error) {
			require.Equal(t, "loan-001", id)
			return loan, nil
		}

		resp, err := h.GetLoan(context.Background(), &GetLoanRequest{LoanID: "loan-001"})
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, "loan-001", resp.ID)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.True(t, dec("1000").Equal(resp.TotalOutstanding))
	})
}

func TestGetScheduleHandler(t *testing.T) {
	t.Run("happy path returns schedule rows", func(t *testing.T) {
		h, m := buildTestHandler()
		loan := activeLoan(t, fixedLoanTerms(t), twoRowSchedule())
		m.loans.findByIDFunc = func(_ context.Context, _ string) (model.Loan, error) {
			return loan, nil
		}

		resp, err := h.GetSchedule(context.Background(), &GetScheduleRequest{LoanID: "loan-001"})
		require.NoError(t, err)
		require.Len(t, resp.Installments, 2)
		assert.Equal(t, "loan-001", resp.LoanID)
		assert.Equal(t, "INR", resp.Currency)
		assert.Equal(t, 1, resp.Installments[0].Number)
	})

	t.Run("unknown loan returns NotFound", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.GetSchedule(context.Background(), &GetScheduleRequest{LoanID: "loan-404"})
		requireGRPCCode(t, err, codes.NotFound)
	})
}

func TestMakePaymentHandler(t *testing.T) {
	t.Run("malformed amount returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.MakePayment(context.Background(), &MakePaymentRequest{
			LoanID: "loan-001", Amount: "six hundred", Currency: "INR",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "invalid amount")
	})

	t.Run("malformed received_at returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.MakePayment(context.Background(), &MakePaymentRequest{
			LoanID: "loan-001", Amount: "600", Currency: "INR", ReceivedAt: "yesterday",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("unknown loan returns NotFound", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.MakePayment(context.Background(), &MakePaymentRequest{
			LoanID: "loan-404", Amount: "600", Currency: "INR",
		})
		requireGRPCCode(t, err, codes.NotFound)
	})

	t.Run("happy path allocates across the schedule", func(t *testing.T) {
		h, m := buildTestHandler()
		loan := activeLoan(t, fixedLoanTerms(t), twoRowSchedule())
		m.loans.findByIDFunc = func(_ context.Context, _ string) (model.Loan, error) {
			return loan, nil
		}

		resp, err := h.MakePayment(context.Background(), &MakePaymentRequest{
			LoanID:    "loan-001",
			Amount:    "500",
			Currency:  "INR",
			Reference: "UTR-123",
		})
		require.NoError(t, err)
		require.Len(t, resp.Allocations, 1)
		assert.True(t, dec("100").Equal(resp.Allocations[0].Interest))
		assert.True(t, dec("400").Equal(resp.Allocations[0].Principal))
		assert.Equal(t, "ACTIVE", resp.LoanStatus)
		assert.True(t, dec("500").Equal(resp.TotalOutstanding))
	})
}

func TestReversePaymentHandler(t *testing.T) {
	inr := func(t *testing.T) money.Currency {
		t.Helper()
		cur, err := money.NewCurrency("INR")
		require.NoError(t, err)
		return cur
	}

	t.Run("empty payment_id returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.ReversePayment(context.Background(), &ReversePaymentRequest{LoanID: "loan-001"})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("unknown payment returns NotFound", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.ReversePayment(context.Background(), &ReversePaymentRequest{
			LoanID: "loan-001", PaymentID: "pay-404",
		})
		requireGRPCCode(t, err, codes.NotFound)
	})

	t.Run("payment of another loan returns InvalidArgument", func(t *testing.T) {
		h, m := buildTestHandler()
		now := date(2024, 5, 2)
		m.payments.findByIDFunc = func(_ context.Context, _ string) (model.Payment, error) {
			return model.ReconstructPayment(
				"pay-001", "loan-999", dec("500"), inr(t), now, "UTR-123",
				nil, decimal.Zero, false, now, now,
			), nil
		}

		_, err := h.ReversePayment(context.Background(), &ReversePaymentRequest{
			LoanID: "loan-001", PaymentID: "pay-001",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "does not belong")
	})

	t.Run("second reversal returns FailedPrecondition", func(t *testing.T) {
		h, m := buildTestHandler()
		now := date(2024, 5, 2)
		m.payments.findByIDFunc = func(_ context.Context, _ string) (model.Payment, error) {
			return model.ReconstructPayment(
				"pay-001", "loan-001", dec("500"), inr(t), now, "UTR-123",
				nil, decimal.Zero, true, now, now,
			), nil
		}
		loan := activeLoan(t, fixedLoanTerms(t), twoRowSchedule())
		m.loans.findByIDFunc = func(_ context.Context, _ string) (model.Loan, error) {
			return loan, nil
		}

		_, err := h.ReversePayment(context.Background(), &ReversePaymentRequest{
			LoanID: "loan-001", PaymentID: "pay-001",
		})
		requireGRPCCode(t, err, codes.FailedPrecondition)
	})
}

func TestRecordBenchmarkRateHandler(t *testing.T) {
	t.Run("missing benchmark returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.RecordBenchmarkRate(context.Background(), &RecordBenchmarkRateRequest{
			EffectiveDate: "2024-04-01", Rate: "8.55",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("malformed effective_date returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.RecordBenchmarkRate(context.Background(), &RecordBenchmarkRateRequest{
			Benchmark: "MCLR-1Y", EffectiveDate: "April 1st", Rate: "8.55",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "invalid effective_date")
	})

	t.Run("happy path records the fixing", func(t *testing.T) {
		h, m := buildTestHandler()
		resp, err := h.RecordBenchmarkRate(context.Background(), &RecordBenchmarkRateRequest{
			Benchmark: "MCLR-1Y", EffectiveDate: "2024-04-01", Rate: "8.55",
		})
		require.NoError(t, err)
		assert.Equal(t, "MCLR-1Y", resp.Benchmark)
		assert.True(t, dec("8.55").Equal(resp.Rate))
		require.Len(t, m.benchmarks.savedRates, 1)
	})
}

func TestApplyRateResetHandler(t *testing.T) {
	t.Run("malformed reset_date returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.ApplyRateReset(context.Background(), &ApplyRateResetRequest{
			LoanID: "loan-001", ResetDate: "soon",
		})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("fixed-rate loan returns FailedPrecondition", func(t *testing.T) {
		h, m := buildTestHandler()
		loan := activeLoan(t, fixedLoanTerms(t), twoRowSchedule())
		m.loans.findByIDFunc = func(_ context.Context, _ string) (model.Loan, error) {
			return loan, nil
		}

		_, err := h.ApplyRateReset(context.Background(), &ApplyRateResetRequest{
			LoanID: "loan-001", ResetDate: "2024-02-01",
		})
		requireGRPCCode(t, err, codes.FailedPrecondition)
	})

	t.Run("missing fixing returns NotFound", func(t *testing.T) {
		h, m := buildTestHandler()
		loan := activeLoan(t, floatingLoanTerms(t), twoRowSchedule())
		m.loans.findByIDFunc = func(_ context.Context, _ string) (model.Loan, error) {
			return loan, nil
		}

		_, err := h.ApplyRateReset(context.Background(), &ApplyRateResetRequest{
			LoanID: "loan-001", ResetDate: "2024-02-01",
		})
		requireGRPCCode(t, err, codes.NotFound)
	})
}

func TestSnapshotDelinquencyHandler(t *testing.T) {
	t.Run("empty loan_id returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.SnapshotDelinquency(context.Background(), &SnapshotDelinquencyRequest{})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("happy path classifies the overdue loan", func(t *testing.T) {
		h, m := buildTestHandler()
		loan := activeLoan(t, fixedLoanTerms(t), twoRowSchedule())
		m.loans.findByIDFunc = func(_ context.Context, _ string) (model.Loan, error) {
			return loan, nil
		}

		resp, err := h.SnapshotDelinquency(context.Background(), &SnapshotDelinquencyRequest{
			LoanID: "loan-001", AsOfDate: "2024-06-15",
		})
		require.NoError(t, err)
		assert.Equal(t, 45, resp.DaysPastDue)
		assert.Equal(t, "31-60", resp.Bucket)
		assert.False(t, resp.AlreadyExisted)
		require.Len(t, m.snapshots.savedSnapshots, 1)

		// A rerun for the same date returns the stored row.
		again, err := h.SnapshotDelinquency(context.Background(), &SnapshotDelinquencyRequest{
			LoanID: "loan-001", AsOfDate: "2024-06-15",
		})
		require.NoError(t, err)
		assert.True(t, again.AlreadyExisted)
		assert.Equal(t, resp.ID, again.ID)
	})
}

func TestRunEndOfDayHandler(t *testing.T) {
	t.Run("malformed as_of_date returns InvalidArgument", func(t *testing.T) {
		h, _ := buildTestHandler()
		_, err := h.RunEndOfDay(context.Background(), &RunEndOfDayRequest{AsOfDate: "today"})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("happy path reports both stages", func(t *testing.T) {
		h, m := buildTestHandler()
		loan := activeLoan(t, fixedLoanTerms(t), twoRowSchedule())
		m.loans.activeLoanIDsFunc = func(_ context.Context) ([]string, error) {
			return []string{"loan-001"}, nil
		}
		m.loans.findByIDFunc = func(_ context.Context, _ string) (model.Loan, error) {
			return loan, nil
		}

		resp, err := h.RunEndOfDay(context.Background(), &RunEndOfDayRequest{AsOfDate: "2024-06-15"})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.RateResets.Total)
		assert.Equal(t, 1, resp.RateResets.Skipped, "fixed loan has no reset due")
		assert.Equal(t, 1, resp.Snapshots.Processed)
		assert.Empty(t, resp.Snapshots.Errors)
	})
}

// requireGRPCCode asserts that an error is a gRPC status error with the given code.
func requireGRPCCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got %T: %v", err, err)
	assert.Equal(t, code, st.Code(), "expected gRPC code %s, got %s: %s", code, st.Code(), st.Message())
}
