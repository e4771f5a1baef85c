package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/dto"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/usecase"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/service"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
)

// bookedPayment builds a payment with its recorded allocation, the way
// MakePayment would have left it.
func bookedPayment(t *testing.T, loanID string, allocations []model.Allocation) model.Payment {
	t.Helper()
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Total())
	}
	now := date(2024, 2, 5)
	payment, err := model.NewPayment(loanID, total, "INR", "", now, now)
	require.NoError(t, err)
	return payment.WithAllocations(allocations, decimal.Zero, now)
}

func newReversePaymentUseCase(
	loans *mockLoanRepository,
	payments *mockPaymentRepository,
	publisher *mockEventPublisher,
) *usecase.ReversePaymentUseCase {
	return usecase.NewReversePaymentUseCase(loans, payments, service.NewAllocationEngine(), publisher)
}

func TestReversePayment_Execute(t *testing.T) {
	t.Run("restores the schedule and persists atomically", func(t *testing.T) {
		rows := twoRowSchedule()
		rows[0].InterestPaid = dec("100")
		rows[0].PrincipalPaid = dec("400")
		rows[0].Status = valueobject.InstallmentStatusPaid
		loan := activeLoan(t, rows)

		payment := bookedPayment(t, "loan-001", []model.Allocation{
			{InstallmentNumber: 1, Fees: decimal.Zero, Interest: dec("100"), Principal: dec("400")},
		})
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Loan, error) { return loan, nil },
		}
		paymentRepo := &mockPaymentRepository{
			findByIDFunc: func(_ context.Context, id string) (model.Payment, error) {
				require.Equal(t, payment.ID(), id)
				return payment, nil
			},
		}
		publisher := &mockEventPublisher{}
		uc := newReversePaymentUseCase(loanRepo, paymentRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.ReversePaymentRequest{
			LoanID:    "loan-001",
			PaymentID: payment.ID(),
		})

		require.NoError(t, err)
		assert.True(t, resp.Reversed)
		assert.True(t, dec("1000").Equal(resp.TotalOutstanding),
			"the reversed amount is owed again, got %s", resp.TotalOutstanding)

		require.Len(t, loanRepo.savedLoans, 1)
		require.Len(t, loanRepo.savedPayments, 1)
		restored := loanRepo.savedLoans[0].Installments()[0]
		assert.True(t, restored.AmountPaid().IsZero())
		assert.True(t, restored.Status.Equal(valueobject.InstallmentStatusPending))
		assert.True(t, loanRepo.savedPayments[0].IsReversed())
		assert.Contains(t, eventTypes(publisher.publishedEvents), "lms.loan.payment_reversed")
	})

	t.Run("reopens a closed loan", func(t *testing.T) {
		rows := twoRowSchedule()
		for i := range rows {
			rows[i].InterestPaid = dec("100")
			rows[i].PrincipalPaid = dec("400")
			rows[i].Status = valueobject.InstallmentStatusPaid
		}
		now := date(2024, 3, 5)
		loan := model.ReconstructLoan(
			"loan-001", "borrower-001", testLoanTerms(t),
			decimal.NewFromInt(12), time.Time{}, rows,
			0, false, time.Time{}, valueobject.LoanStatusClosed,
			3, now, now,
		)

		payment := bookedPayment(t, "loan-001", []model.Allocation{
			{InstallmentNumber: 2, Fees: decimal.Zero, Interest: dec("100"), Principal: dec("400")},
		})
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Loan, error) { return loan, nil },
		}
		paymentRepo := &mockPaymentRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Payment, error) { return payment, nil },
		}
		publisher := &mockEventPublisher{}
		uc := newReversePaymentUseCase(loanRepo, paymentRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.ReversePaymentRequest{
			LoanID:    "loan-001",
			PaymentID: payment.ID(),
		})

		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", resp.LoanStatus)
		assert.True(t, dec("500").Equal(resp.TotalOutstanding))
		types := eventTypes(publisher.publishedEvents)
		assert.Contains(t, types, "lms.loan.payment_reversed")
		assert.Contains(t, types, "lms.loan.reopened")
	})

	t.Run("rejects a second reversal", func(t *testing.T) {
		rows := twoRowSchedule()
		loan := activeLoan(t, rows)
		payment := bookedPayment(t, "loan-001", []model.Allocation{
			{InstallmentNumber: 1, Fees: decimal.Zero, Interest: dec("100"), Principal: dec("400")},
		})
		reversed, err := payment.MarkReversed(date(2024, 2, 6))
		require.NoError(t, err)

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Loan, error) { return loan, nil },
		}
		paymentRepo := &mockPaymentRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Payment, error) { return reversed, nil },
		}
		uc := newReversePaymentUseCase(loanRepo, paymentRepo, &mockEventPublisher{})

		_, err = uc.Execute(context.Background(), dto.ReversePaymentRequest{
			LoanID:    "loan-001",
			PaymentID: reversed.ID(),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrPaymentReversed)
		assert.Empty(t, loanRepo.savedLoans)
	})

	t.Run("rejects a payment belonging to another loan", func(t *testing.T) {
		loan := activeLoan(t, twoRowSchedule())
		payment := bookedPayment(t, "loan-999", []model.Allocation{
			{InstallmentNumber: 1, Fees: decimal.Zero, Interest: dec("100"), Principal: dec("400")},
		})

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Loan, error) { return loan, nil },
		}
		paymentRepo := &mockPaymentRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Payment, error) { return payment, nil },
		}
		uc := newReversePaymentUseCase(loanRepo, paymentRepo, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.ReversePaymentRequest{
			LoanID:    "loan-001",
			PaymentID: payment.ID(),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong")
	})
}
