package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/dto"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/service"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/businessday"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/daycount"
)

// DisburseLoanUseCase opens a loan: it validates the requested terms, prices
// the effective rate, generates the repayment schedule, and publishes the
// disbursement event.
type DisburseLoanUseCase struct {
	loans      port.LoanRepository
	calendars  port.CalendarSource
	rateEngine *service.RateEngine
	generator  *service.ScheduleGenerator
	publisher  port.EventPublisher
}

// NewDisburseLoanUseCase wires dependencies.
func NewDisburseLoanUseCase(
	loans port.LoanRepository,
	calendars port.CalendarSource,
	rateEngine *service.RateEngine,
	generator *service.ScheduleGenerator,
	publisher port.EventPublisher,
) *DisburseLoanUseCase {
	return &DisburseLoanUseCase{
		loans:      loans,
		calendars:  calendars,
		rateEngine: rateEngine,
		generator:  generator,
		publisher:  publisher,
	}
}

// Execute disburses a loan on the requested terms.
func (uc *DisburseLoanUseCase) Execute(
	ctx context.Context,
	req dto.DisburseLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	// 1. Assemble and validate the loan terms.
	terms, err := termsFromRequest(req)
	if err != nil {
		return dto.LoanResponse{}, err
	}

	// 2. Price the effective rate the loan starts at.
	rate, err := uc.rateEngine.EffectiveRate(ctx, terms, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("price effective rate: %w", err)
	}

	// 3. Generate the repayment schedule against the holiday calendar.
	cal, err := uc.calendars.Calendar(ctx, terms.CalendarID())
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("resolve calendar %q: %w", terms.CalendarID(), err)
	}
	installments, err := uc.generator.Generate(terms, rate, cal)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("generate schedule: %w", err)
	}

	// 4. Create the Loan aggregate.
	loan, err := model.NewLoan(req.BorrowerID, terms, rate, installments, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("create loan: %w", err)
	}

	// 5. Persist the loan with its schedule.
	if err := uc.loans.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 6. Publish domain events (LoanDisbursed).
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	resp := toLoanResponse(loan)
	resp.Schedule = toInstallmentResponses(loan.Installments())
	return resp, nil
}

// termsFromRequest parses the request's enumerated fields and assembles
// validated loan terms. Unknown enumerated values surface as configuration
// errors.
func termsFromRequest(req dto.DisburseLoanRequest) (model.LoanTerms, error) {
	basis, err := valueobject.NewRateBasis(req.RateBasis)
	if err != nil {
		return model.LoanTerms{}, valueobject.NewConfigurationError("rate_basis", err.Error())
	}
	conv, err := daycount.ParseConvention(req.DayCount)
	if err != nil {
		return model.LoanTerms{}, valueobject.NewConfigurationError("day_count", err.Error())
	}
	freq, err := daycount.ParseFrequency(req.RepaymentFrequency)
	if err != nil {
		return model.LoanTerms{}, valueobject.NewConfigurationError("repayment_frequency", err.Error())
	}
	adjustment, err := businessday.ParseAdjustment(req.BusinessDayRule)
	if err != nil {
		return model.LoanTerms{}, valueobject.NewConfigurationError("business_day_rule", err.Error())
	}

	variant, err := variantFromRequest(req)
	if err != nil {
		return model.LoanTerms{}, err
	}
	moratorium, err := moratoriumFromRequest(req)
	if err != nil {
		return model.LoanTerms{}, err
	}

	var floating *model.FloatingRateTerms
	if basis.Equal(valueobject.RateBasisFloating) && req.Benchmark != "" {
		// The linkage reprices at the repayment frequency unless the
		// request names its own reset frequency.
		resetFreq := freq
		if req.ResetFrequency != "" {
			resetFreq, err = daycount.ParseFrequency(req.ResetFrequency)
			if err != nil {
				return model.LoanTerms{}, valueobject.NewConfigurationError("reset_frequency", err.Error())
			}
		}
		f, err := model.NewFloatingRateTerms(
			req.Benchmark, req.Spread, req.RateFloor, req.RateCap,
			resetFreq, req.FirstResetDate,
		)
		if err != nil {
			return model.LoanTerms{}, fmt.Errorf("build floating terms: %w", err)
		}
		floating = &f
	}

	terms, err := model.NewLoanTerms(
		req.Principal, req.Currency, req.AnnualRate, basis,
		conv, freq, req.TenureMonths, req.StartDate,
		req.CalendarID, adjustment, variant, moratorium, floating,
	)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("build loan terms: %w", err)
	}
	return terms, nil
}

func variantFromRequest(req dto.DisburseLoanRequest) (valueobject.ScheduleVariant, error) {
	kind, err := valueobject.NewScheduleKind(req.ScheduleKind)
	if err != nil {
		return valueobject.ScheduleVariant{}, valueobject.NewConfigurationError("schedule_kind", err.Error())
	}
	switch kind {
	case valueobject.ScheduleKindStepUp:
		return valueobject.NewStepUpVariant(req.StepPercent, req.StepEveryMonths)
	case valueobject.ScheduleKindStepDown:
		return valueobject.NewStepDownVariant(req.StepPercent, req.StepEveryMonths)
	case valueobject.ScheduleKindBalloon:
		return valueobject.NewBalloonVariant(req.BalloonPercent, req.BalloonAmount)
	default:
		return valueobject.StandardVariant(), nil
	}
}

func moratoriumFromRequest(req dto.DisburseLoanRequest) (valueobject.Moratorium, error) {
	if req.MoratoriumMonths <= 0 {
		return valueobject.Moratorium{}, nil
	}
	kind, err := valueobject.NewMoratoriumKind(req.MoratoriumKind)
	if err != nil {
		return valueobject.Moratorium{}, valueobject.NewConfigurationError("moratorium_kind", err.Error())
	}
	var treatment valueobject.InterestTreatment
	if req.InterestTreatment != "" {
		treatment, err = valueobject.NewInterestTreatment(req.InterestTreatment)
		if err != nil {
			return valueobject.Moratorium{}, valueobject.NewConfigurationError("interest_treatment", err.Error())
		}
	}
	return valueobject.NewMoratorium(req.MoratoriumMonths, kind, treatment)
}

// ---------------------------------------------------------------------------
// Response mappers shared across the package
// ---------------------------------------------------------------------------

func toLoanResponse(loan model.Loan) dto.LoanResponse {
	terms := loan.Terms()
	resp := dto.LoanResponse{
		ID:                   loan.ID(),
		BorrowerID:           loan.BorrowerID(),
		Principal:            terms.Principal(),
		Currency:             terms.Currency().Code(),
		AnnualRate:           terms.AnnualRate(),
		CurrentRate:          loan.CurrentRate(),
		RateBasis:            terms.RateBasis().String(),
		DayCount:             terms.DayCount().String(),
		RepaymentFrequency:   terms.Frequency().String(),
		TenureMonths:         terms.TenureMonths(),
		StartDate:            terms.StartDate(),
		Status:               loan.Status().String(),
		PrincipalOutstanding: loan.PrincipalOutstanding(),
		InterestOutstanding:  loan.InterestOutstanding(),
		FeesOutstanding:      loan.FeesOutstanding(),
		TotalOutstanding:     loan.TotalOutstanding(),
		NextDueDate:          optionalTime(loan.NextDueDate()),
		NextDueAmount:        loan.NextDueAmount(),
		DaysPastDue:          loan.DaysPastDue(),
		IsNPA:                loan.IsNPA(),
		NPADate:              optionalTime(loan.NPADate()),
		NextResetDate:        optionalTime(loan.NextResetDate()),
		Version:              loan.Version(),
		CreatedAt:            loan.CreatedAt(),
		UpdatedAt:            loan.UpdatedAt(),
	}
	if floating, ok := terms.Floating(); ok {
		resp.Benchmark = floating.Benchmark()
	}
	return resp
}

func toInstallmentResponses(installments []model.Installment) []dto.InstallmentResponse {
	rows := make([]dto.InstallmentResponse, len(installments))
	for i, inst := range installments {
		rows[i] = dto.InstallmentResponse{
			Number:         inst.Number,
			DueDate:        inst.DueDate,
			PeriodStart:    inst.PeriodStart,
			PeriodEnd:      inst.PeriodEnd,
			OpeningBalance: inst.OpeningBalance,
			PrincipalDue:   inst.PrincipalDue,
			InterestDue:    inst.InterestDue,
			FeesDue:        inst.FeesDue,
			TotalDue:       inst.TotalDue,
			ClosingBalance: inst.ClosingBalance,
			PrincipalPaid:  inst.PrincipalPaid,
			InterestPaid:   inst.InterestPaid,
			FeesPaid:       inst.FeesPaid,
			IsMoratorium:   inst.IsMoratorium,
			StepNumber:     inst.StepNumber,
			Status:         inst.Status.String(),
		}
	}
	return rows
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
