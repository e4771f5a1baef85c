package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/dto"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/service"
)

// ApplyRateResetUseCase reprices a floating-rate loan from its benchmark.
// The new effective rate takes over for interest accrued after the reset
// date; already-generated installments keep their amounts until the
// schedule is regenerated.
type ApplyRateResetUseCase struct {
	loans      port.LoanRepository
	rateEngine *service.RateEngine
	publisher  port.EventPublisher
}

// NewApplyRateResetUseCase wires dependencies.
func NewApplyRateResetUseCase(
	loans port.LoanRepository,
	rateEngine *service.RateEngine,
	publisher port.EventPublisher,
) *ApplyRateResetUseCase {
	return &ApplyRateResetUseCase{
		loans:      loans,
		rateEngine: rateEngine,
		publisher:  publisher,
	}
}

// Execute applies a rate reset to a loan.
func (uc *ApplyRateResetUseCase) Execute(
	ctx context.Context,
	req dto.ApplyRateResetRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()
	resetDate := req.ResetDate
	if resetDate.IsZero() {
		resetDate = now
	}

	// 1. Load the loan.
	loan, err := uc.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Reprice from the benchmark and advance the reset clock.
	loan, err = uc.rateEngine.ApplyReset(ctx, loan, resetDate, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("apply rate reset: %w", err)
	}

	// 3. Persist the repriced loan.
	if err := uc.loans.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 4. Publish domain events (RateResetApplied).
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toLoanResponse(loan), nil
}
