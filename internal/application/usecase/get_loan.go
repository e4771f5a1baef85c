package usecase

import (
	"context"
	"fmt"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/dto"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
)

// GetLoanUseCase retrieves a loan by ID.
type GetLoanUseCase struct {
	loans port.LoanRepository
}

// NewGetLoanUseCase wires dependencies.
func NewGetLoanUseCase(loans port.LoanRepository) *GetLoanUseCase {
	return &GetLoanUseCase{loans: loans}
}

// Execute returns a loan summary for the given ID.
func (uc *GetLoanUseCase) Execute(
	ctx context.Context,
	req dto.GetLoanRequest,
) (dto.LoanResponse, error) {
	loan, err := uc.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	return toLoanResponse(loan), nil
}

// GetScheduleUseCase retrieves a loan's full repayment schedule.
type GetScheduleUseCase struct {
	loans port.LoanRepository
}

// NewGetScheduleUseCase wires dependencies.
func NewGetScheduleUseCase(loans port.LoanRepository) *GetScheduleUseCase {
	return &GetScheduleUseCase{loans: loans}
}

// Execute returns the schedule rows for the given loan ID.
func (uc *GetScheduleUseCase) Execute(
	ctx context.Context,
	req dto.GetScheduleRequest,
) (dto.ScheduleResponse, error) {
	loan, err := uc.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("find loan: %w", err)
	}
	return dto.ScheduleResponse{
		LoanID:        loan.ID(),
		Currency:      loan.Terms().Currency().Code(),
		EffectiveRate: loan.CurrentRate(),
		Installments:  toInstallmentResponses(loan.Installments()),
	}, nil
}
