package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/dto"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/usecase"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/service"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
)

const dateLayout = "2006-01-02"

// parseDecimal converts a proto string amount into a decimal.
func parseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "invalid %s: %v", field, err)
	}
	return d, nil
}

// parseOptionalDecimal treats an empty string as zero.
func parseOptionalDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Decimal{}, nil
	}
	return parseDecimal(field, value)
}

// parseOptionalDecimalPtr treats an empty string as absent.
func parseOptionalDecimalPtr(field, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := parseDecimal(field, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseDate converts a proto yyyy-mm-dd date string.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "invalid %s: %v", field, err)
	}
	return t, nil
}

// parseOptionalDate treats an empty string as absent.
func parseOptionalDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return parseDate(field, value)
}

// parseOptionalTimestamp converts an RFC 3339 timestamp, empty meaning absent.
func parseOptionalTimestamp(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "invalid %s: %v", field, err)
	}
	return t, nil
}

// statusFromError maps domain and port errors onto gRPC status codes.
func statusFromError(err error) error {
	var cfgErr *valueobject.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		return status.Error(codes.InvalidArgument, cfgErr.Error())
	case errors.Is(err, port.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrRateNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, port.ErrVersionConflict),
		errors.Is(err, model.ErrPaymentReversed),
		errors.Is(err, model.ErrFixedRateLoan):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// Compile-time assertion that LoanServiceHandler implements LoanServiceServer.
var _ LoanServiceServer = (*LoanServiceHandler)(nil)

// LoanServiceHandler implements the gRPC LoanServiceServer interface.
type LoanServiceHandler struct {
	UnimplementedLoanServiceServer
	disburseUC       *usecase.DisburseLoanUseCase
	getLoanUC        *usecase.GetLoanUseCase
	getScheduleUC    *usecase.GetScheduleUseCase
	makePaymentUC    *usecase.MakePaymentUseCase
	reversePaymentUC *usecase.ReversePaymentUseCase
	recordRateUC     *usecase.RecordBenchmarkRateUseCase
	rateResetUC      *usecase.ApplyRateResetUseCase
	regenerateUC     *usecase.RegenerateScheduleUseCase
	snapshotUC       *usecase.SnapshotDelinquencyUseCase
	endOfDayUC       *usecase.RunEndOfDayUseCase
}

// NewLoanServiceHandler creates a new LoanServiceHandler.
func NewLoanServiceHandler(
	disburseUC *usecase.DisburseLoanUseCase,
	getLoanUC *usecase.GetLoanUseCase,
	getScheduleUC *usecase.GetScheduleUseCase,
	makePaymentUC *usecase.MakePaymentUseCase,
	reversePaymentUC *usecase.ReversePaymentUseCase,
	recordRateUC *usecase.RecordBenchmarkRateUseCase,
	rateResetUC *usecase.ApplyRateResetUseCase,
	regenerateUC *usecase.RegenerateScheduleUseCase,
	snapshotUC *usecase.SnapshotDelinquencyUseCase,
	endOfDayUC *usecase.RunEndOfDayUseCase,
) *LoanServiceHandler {
	return &LoanServiceHandler{
		disburseUC:       disburseUC,
		getLoanUC:        getLoanUC,
		getScheduleUC:    getScheduleUC,
		makePaymentUC:    makePaymentUC,
		reversePaymentUC: reversePaymentUC,
		recordRateUC:     recordRateUC,
		rateResetUC:      rateResetUC,
		regenerateUC:     regenerateUC,
		snapshotUC:       snapshotUC,
		endOfDayUC:       endOfDayUC,
	}
}

// Proto-aligned request/response message types. Amounts and rates travel as
// strings, dates as yyyy-mm-dd strings, timestamps as RFC 3339 strings.

// DisburseLoanRequest represents the proto DisburseLoanRequest message.
type DisburseLoanRequest struct {
	BorrowerID         string `json:"borrower_id"`
	Principal          string `json:"principal"`
	Currency           string `json:"currency"`
	AnnualRate         string `json:"annual_rate"`
	RateBasis          string `json:"rate_basis"`
	DayCount           string `json:"day_count"`
	RepaymentFrequency string `json:"repayment_frequency"`
	BusinessDayRule    string `json:"business_day_rule"`
	TenureMonths       int    `json:"tenure_months"`
	StartDate          string `json:"start_date"`
	CalendarID         string `json:"calendar_id"`
	ScheduleKind       string `json:"schedule_kind"`
	StepPercent        string `json:"step_percent"`
	StepEveryMonths    int    `json:"step_every_months"`
	BalloonPercent     string `json:"balloon_percent"`
	BalloonAmount      string `json:"balloon_amount"`
	MoratoriumMonths   int    `json:"moratorium_months"`
	MoratoriumKind     string `json:"moratorium_kind"`
	InterestTreatment  string `json:"interest_treatment"`
	Benchmark          string `json:"benchmark"`
	Spread             string `json:"spread"`
	RateFloor          string `json:"rate_floor"`
	RateCap            string `json:"rate_cap"`
	ResetFrequency     string `json:"reset_frequency"`
	FirstResetDate     string `json:"first_reset_date"`
}

// GetLoanRequest represents the proto GetLoanRequest message.
type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// GetScheduleRequest represents the proto GetScheduleRequest message.
type GetScheduleRequest struct {
	LoanID string `json:"loan_id"`
}

// MakePaymentRequest represents the proto MakePaymentRequest message.
type MakePaymentRequest struct {
	LoanID     string `json:"loan_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Reference  string `json:"reference"`
	ReceivedAt string `json:"received_at"`
}

// ReversePaymentRequest represents the proto ReversePaymentRequest message.
type ReversePaymentRequest struct {
	LoanID    string `json:"loan_id"`
	PaymentID string `json:"payment_id"`
}

// RecordBenchmarkRateRequest represents the proto RecordBenchmarkRateRequest message.
type RecordBenchmarkRateRequest struct {
	Benchmark     string `json:"benchmark"`
	EffectiveDate string `json:"effective_date"`
	Rate          string `json:"rate"`
}

// ApplyRateResetRequest represents the proto ApplyRateResetRequest message.
type ApplyRateResetRequest struct {
	LoanID    string `json:"loan_id"`
	ResetDate string `json:"reset_date"`
}

// RegenerateScheduleRequest represents the proto RegenerateScheduleRequest message.
type RegenerateScheduleRequest struct {
	LoanID string `json:"loan_id"`
}

// SnapshotDelinquencyRequest represents the proto SnapshotDelinquencyRequest message.
type SnapshotDelinquencyRequest struct {
	LoanID   string `json:"loan_id"`
	AsOfDate string `json:"as_of_date"`
}

// RunEndOfDayRequest represents the proto RunEndOfDayRequest message.
type RunEndOfDayRequest struct {
	AsOfDate string `json:"as_of_date"`
}

// Response messages alias the application DTOs directly; decimals marshal as
// quoted strings, matching the proto string amounts.
type (
	DisburseLoanResponse        = dto.LoanResponse
	GetLoanResponse             = dto.LoanResponse
	GetScheduleResponse         = dto.ScheduleResponse
	MakePaymentResponse         = dto.PaymentResponse
	ReversePaymentResponse      = dto.PaymentResponse
	RecordBenchmarkRateResponse = dto.BenchmarkRateResponse
	ApplyRateResetResponse      = dto.LoanResponse
	RegenerateScheduleResponse  = dto.RegenerateScheduleResponse
	SnapshotDelinquencyResponse = dto.DelinquencySnapshotResponse
	RunEndOfDayResponse         = dto.EndOfDayResponse
)

// DisburseLoan handles the gRPC request to disburse a new loan.
func (h *LoanServiceHandler) DisburseLoan(ctx context.Context, req *DisburseLoanRequest) (*DisburseLoanResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	principal, err := parseDecimal("principal", req.Principal)
	if err != nil {
		return nil, err
	}
	annualRate, err := parseDecimal("annual_rate", req.AnnualRate)
	if err != nil {
		return nil, err
	}
	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	stepPercent, err := parseOptionalDecimal("step_percent", req.StepPercent)
	if err != nil {
		return nil, err
	}
	balloonPercent, err := parseOptionalDecimal("balloon_percent", req.BalloonPercent)
	if err != nil {
		return nil, err
	}
	balloonAmount, err := parseOptionalDecimal("balloon_amount", req.BalloonAmount)
	if err != nil {
		return nil, err
	}
	spread, err := parseOptionalDecimal("spread", req.Spread)
	if err != nil {
		return nil, err
	}
	rateFloor, err := parseOptionalDecimalPtr("rate_floor", req.RateFloor)
	if err != nil {
		return nil, err
	}
	rateCap, err := parseOptionalDecimalPtr("rate_cap", req.RateCap)
	if err != nil {
		return nil, err
	}
	firstResetDate, err := parseOptionalDate("first_reset_date", req.FirstResetDate)
	if err != nil {
		return nil, err
	}

	resp, err := h.disburseUC.Execute(ctx, dto.DisburseLoanRequest{
		BorrowerID:         req.BorrowerID,
		Principal:          principal,
		Currency:           req.Currency,
		AnnualRate:         annualRate,
		RateBasis:          req.RateBasis,
		DayCount:           req.DayCount,
		RepaymentFrequency: req.RepaymentFrequency,
		BusinessDayRule:    req.BusinessDayRule,
		TenureMonths:       req.TenureMonths,
		StartDate:          startDate,
		CalendarID:         req.CalendarID,
		ScheduleKind:       req.ScheduleKind,
		StepPercent:        stepPercent,
		StepEveryMonths:    req.StepEveryMonths,
		BalloonPercent:     balloonPercent,
		BalloonAmount:      balloonAmount,
		MoratoriumMonths:   req.MoratoriumMonths,
		MoratoriumKind:     req.MoratoriumKind,
		InterestTreatment:  req.InterestTreatment,
		Benchmark:          req.Benchmark,
		Spread:             spread,
		RateFloor:          rateFloor,
		RateCap:            rateCap,
		ResetFrequency:     req.ResetFrequency,
		FirstResetDate:     firstResetDate,
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &resp, nil
}

// GetLoan handles the gRPC request to retrieve a loan with its schedule.
func (h *LoanServiceHandler) GetLoan(ctx context.Context, req *GetLoanRequest) (*GetLoanResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}

	resp, err := h.getLoanUC.Execute(ctx, dto.GetLoanRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &resp, nil
}

// GetSchedule handles the gRPC request to retrieve a loan's repayment schedule.
func (h *LoanServiceHandler) GetSchedule(ctx context.Context, req *GetScheduleRequest) (*GetScheduleResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}

	resp, err := h.getScheduleUC.Execute(ctx, dto.GetScheduleRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &resp, nil
}

// MakePayment handles the gRPC request to apply a repayment to a loan.
func (h *LoanServiceHandler) MakePayment(ctx context.Context, req *MakePaymentRequest) (*MakePaymentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}

	amount, err := parseDecimal("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	receivedAt, err := parseOptionalTimestamp("received_at", req.ReceivedAt)
	if err != nil {
		return nil, err
	}

	resp, err := h.makePaymentUC.Execute(ctx, dto.MakePaymentRequest{
		LoanID:     req.LoanID,
		Amount:     amount,
		Currency:   req.Currency,
		Reference:  req.Reference,
		ReceivedAt: receivedAt,
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &resp, nil
}

// ReversePayment handles the gRPC request to reverse a booked payment.
func (h *LoanServiceHandler) ReversePayment(ctx context.Context, req *ReversePaymentRequest) (*ReversePaymentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}
	if req.PaymentID == "" {
		return nil, status.Error(codes.InvalidArgument, "payment_id is required")
	}

	resp, err := h.reversePaymentUC.Execute(ctx, dto.ReversePaymentRequest{
		LoanID:    req.LoanID,
		PaymentID: req.PaymentID,
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &resp, nil
}

// RecordBenchmarkRate handles the gRPC request to record a benchmark fixing.
func (h *LoanServiceHandler) RecordBenchmarkRate(ctx context.Context, req *RecordBenchmarkRateRequest) (*RecordBenchmarkRateResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.Benchmark == "" {
		return nil, status.Error(codes.InvalidArgument, "benchmark is required")
	}

	effectiveDate, err := parseDate("effective_date", req.EffectiveDate)
	if err != nil {
		return nil, err
	}
	rate, err := parseDecimal("rate", req.Rate)
	if err != nil {
		return nil, err
	}

	resp, err := h.recordRateUC.Execute(ctx, dto.RecordBenchmarkRateRequest{
		Benchmark:     req.Benchmark,
		EffectiveDate: effectiveDate,
		Rate:          rate,
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &resp, nil
}

// ApplyRateReset handles the gRPC request to reset a floating loan's rate.
func (h *LoanServiceHandler) ApplyRateReset(ctx context.Context, req *ApplyRateResetRequest) (*ApplyRateResetResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}

	resetDate, err := parseOptionalDate("reset_date", req.ResetDate)
	if err != nil {
		return nil, err
	}

	resp, err := h.rateResetUC.Execute(ctx, dto.ApplyRateResetRequest{
		LoanID:    req.LoanID,
		ResetDate: resetDate,
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &resp, nil
}

// RegenerateSchedule handles the gRPC request to rebuild a loan's unpaid schedule.
func (h *LoanServiceHandler) RegenerateSchedule(ctx context.Context, req *RegenerateScheduleRequest) (*RegenerateScheduleResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}

	resp, err := h.regenerateUC.Execute(ctx, dto.RegenerateScheduleRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &resp, nil
}

// SnapshotDelinquency handles the gRPC request to take a dated delinquency snapshot.
func (h *LoanServiceHandler) SnapshotDelinquency(ctx context.Context, req *SnapshotDelinquencyRequest) (*SnapshotDelinquencyResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}

	asOfDate, err := parseOptionalDate("as_of_date", req.AsOfDate)
	if err != nil {
		return nil, err
	}

	resp, err := h.snapshotUC.Execute(ctx, dto.SnapshotDelinquencyRequest{
		LoanID:   req.LoanID,
		AsOfDate: asOfDate,
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &resp, nil
}

// RunEndOfDay handles the gRPC request to run the end-of-day batch.
func (h *LoanServiceHandler) RunEndOfDay(ctx context.Context, req *RunEndOfDayRequest) (*RunEndOfDayResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	asOfDate, err := parseOptionalDate("as_of_date", req.AsOfDate)
	if err != nil {
		return nil, err
	}

	resp, err := h.endOfDayUC.Execute(ctx, dto.RunEndOfDayRequest{AsOfDate: asOfDate})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &resp, nil
}
