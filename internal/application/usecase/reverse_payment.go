package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/dto"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/service"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
)

// ReversePaymentUseCase backs a payment out of a loan: allocations are
// subtracted component by component, installment statuses are recomputed,
// and a closed loan with a reinstated balance reopens.
type ReversePaymentUseCase struct {
	loans     port.LoanRepository
	payments  port.PaymentRepository
	engine    *service.AllocationEngine
	publisher port.EventPublisher
}

// NewReversePaymentUseCase wires dependencies.
func NewReversePaymentUseCase(
	loans port.LoanRepository,
	payments port.PaymentRepository,
	engine *service.AllocationEngine,
	publisher port.EventPublisher,
) *ReversePaymentUseCase {
	return &ReversePaymentUseCase{
		loans:     loans,
		payments:  payments,
		engine:    engine,
		publisher: publisher,
	}
}

// Execute reverses a previously booked payment.
func (uc *ReversePaymentUseCase) Execute(
	ctx context.Context,
	req dto.ReversePaymentRequest,
) (dto.PaymentResponse, error) {
	now := time.Now().UTC()

	// 1. Load the payment and check it belongs to the loan.
	payment, err := uc.payments.FindByID(ctx, req.PaymentID)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("find payment: %w", err)
	}
	if payment.LoanID() != req.LoanID {
		return dto.PaymentResponse{}, valueobject.NewConfigurationError(
			"payment_id", "does not belong to the loan")
	}

	// 2. Load the loan.
	loan, err := uc.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 3. Mark the payment reversed; a second reversal is rejected here.
	payment, err = payment.MarkReversed(now)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("mark reversed: %w", err)
	}

	// 4. Subtract the recorded allocations from the schedule.
	installments, err := uc.engine.Reverse(payment, loan.Installments())
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("reverse allocations: %w", err)
	}
	loan = loan.ApplyReversal(payment, installments, now)

	// 5. Persist loan and payment in one transaction.
	if err := uc.loans.SaveWithPayment(ctx, loan, payment); err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("save loan with payment: %w", err)
	}

	// 6. Publish domain events (PaymentReversed, possibly LoanReopened).
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toPaymentResponse(payment, loan), nil
}
