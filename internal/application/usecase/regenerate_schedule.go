package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/dto"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/service"
)

// RegenerateScheduleUseCase re-amortizes the unpaid tail of a loan's
// schedule at the loan's current effective rate. Settled and partially paid
// installments keep their amounts; only fully unpaid rows after the last
// touched one are rebuilt. Typically run after a rate reset.
type RegenerateScheduleUseCase struct {
	loans     port.LoanRepository
	calendars port.CalendarSource
	generator *service.ScheduleGenerator
	publisher port.EventPublisher
}

// NewRegenerateScheduleUseCase wires dependencies.
func NewRegenerateScheduleUseCase(
	loans port.LoanRepository,
	calendars port.CalendarSource,
	generator *service.ScheduleGenerator,
	publisher port.EventPublisher,
) *RegenerateScheduleUseCase {
	return &RegenerateScheduleUseCase{
		loans:     loans,
		calendars: calendars,
		generator: generator,
		publisher: publisher,
	}
}

// Execute regenerates the unpaid tail of a loan's schedule.
func (uc *RegenerateScheduleUseCase) Execute(
	ctx context.Context,
	req dto.RegenerateScheduleRequest,
) (dto.RegenerateScheduleResponse, error) {
	now := time.Now().UTC()

	// 1. Load the loan and its calendar.
	loan, err := uc.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.RegenerateScheduleResponse{}, fmt.Errorf("find loan: %w", err)
	}
	cal, err := uc.calendars.Calendar(ctx, loan.Terms().CalendarID())
	if err != nil {
		return dto.RegenerateScheduleResponse{}, fmt.Errorf(
			"resolve calendar %q: %w", loan.Terms().CalendarID(), err)
	}

	// 2. Re-amortize the unpaid tail at the current rate.
	installments, from, err := uc.generator.Regenerate(
		loan.Terms(), loan.CurrentRate(), cal, loan.Installments())
	if err != nil {
		return dto.RegenerateScheduleResponse{}, fmt.Errorf("regenerate schedule: %w", err)
	}

	// 3. A fully settled schedule has no tail to rebuild; nothing changes.
	if from == 0 {
		return dto.RegenerateScheduleResponse{
			LoanID:        loan.ID(),
			EffectiveRate: loan.CurrentRate(),
			Schedule:      toInstallmentResponses(loan.Installments()),
		}, nil
	}

	// 4. Swap the schedule in and persist.
	loan = loan.WithRegeneratedSchedule(installments, from, now)
	if err := uc.loans.Save(ctx, loan); err != nil {
		return dto.RegenerateScheduleResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 5. Publish domain events (ScheduleRegenerated).
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.RegenerateScheduleResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return dto.RegenerateScheduleResponse{
		LoanID:          loan.ID(),
		EffectiveRate:   loan.CurrentRate(),
		FromInstallment: from,
		Schedule:        toInstallmentResponses(loan.Installments()),
	}, nil
}
