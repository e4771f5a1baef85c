package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/dto"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/service"
)

// MakePaymentUseCase books an incoming payment against a loan: it allocates
// the amount across the schedule in waterfall order, persists the loan and
// payment atomically, and publishes the resulting events. A repeated request
// with the same reference replays the original result.
type MakePaymentUseCase struct {
	loans     port.LoanRepository
	payments  port.PaymentRepository
	engine    *service.AllocationEngine
	publisher port.EventPublisher
}

// NewMakePaymentUseCase wires dependencies.
func NewMakePaymentUseCase(
	loans port.LoanRepository,
	payments port.PaymentRepository,
	engine *service.AllocationEngine,
	publisher port.EventPublisher,
) *MakePaymentUseCase {
	return &MakePaymentUseCase{
		loans:     loans,
		payments:  payments,
		engine:    engine,
		publisher: publisher,
	}
}

// Execute books a payment against a loan.
func (uc *MakePaymentUseCase) Execute(
	ctx context.Context,
	req dto.MakePaymentRequest,
) (dto.PaymentResponse, error) {
	now := time.Now().UTC()

	// 1. Replay a payment already booked under this reference.
	if req.Reference != "" {
		existing, err := uc.payments.FindByReference(ctx, req.LoanID, req.Reference)
		switch {
		case err == nil:
			loan, err := uc.loans.FindByID(ctx, req.LoanID)
			if err != nil {
				return dto.PaymentResponse{}, fmt.Errorf("find loan: %w", err)
			}
			return toPaymentResponse(existing, loan), nil
		case !errors.Is(err, port.ErrNotFound):
			return dto.PaymentResponse{}, fmt.Errorf("find payment by reference: %w", err)
		}
	}

	// 2. Load the loan and book the payment.
	loan, err := uc.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("find loan: %w", err)
	}
	payment, err := model.NewPayment(
		req.LoanID, req.Amount, req.Currency, req.Reference, req.ReceivedAt, now,
	)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("create payment: %w", err)
	}

	// 3. Allocate across the schedule in waterfall order.
	installments, allocations, remainder := uc.engine.Allocate(payment.Amount(), loan.Installments())
	payment = payment.WithAllocations(allocations, remainder, now)

	// 4. Apply the allocation result to the loan.
	loan, err = loan.ApplyPayment(payment, installments, now)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("apply payment: %w", err)
	}

	// 5. Persist loan and payment in one transaction.
	if err := uc.loans.SaveWithPayment(ctx, loan, payment); err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("save loan with payment: %w", err)
	}

	// 6. Publish domain events (PaymentReceived, possibly LoanClosed).
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toPaymentResponse(payment, loan), nil
}

func toPaymentResponse(payment model.Payment, loan model.Loan) dto.PaymentResponse {
	allocations := payment.Allocations()
	rows := make([]dto.AllocationResponse, len(allocations))
	for i, a := range allocations {
		rows[i] = dto.AllocationResponse{
			InstallmentNumber: a.InstallmentNumber,
			Fees:              a.Fees,
			Interest:          a.Interest,
			Principal:         a.Principal,
		}
	}

	return dto.PaymentResponse{
		ID:               payment.ID(),
		LoanID:           payment.LoanID(),
		Amount:           payment.Amount(),
		Currency:         payment.Currency().Code(),
		Reference:        payment.Reference(),
		ReceivedAt:       payment.ReceivedAt(),
		Allocations:      rows,
		Unallocated:      payment.Unallocated(),
		Reversed:         payment.IsReversed(),
		LoanStatus:       loan.Status().String(),
		TotalOutstanding: loan.TotalOutstanding(),
	}
}
