package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// DisburseLoanRequest carries everything needed to open a loan and generate
// its first repayment schedule. Enumerated fields (rate_basis, day_count,
// repayment_frequency, business_day_rule, schedule_kind, moratorium_kind,
// interest_treatment) are parsed and validated by the use case; the zero
// value of an optional field means "not requested".
type DisburseLoanRequest struct {
	BorrowerID         string          `json:"borrower_id"`
	Principal          decimal.Decimal `json:"principal"`
	Currency           string          `json:"currency"`
	AnnualRate         decimal.Decimal `json:"annual_rate"`
	RateBasis          string          `json:"rate_basis"`
	DayCount           string          `json:"day_count"`
	RepaymentFrequency string          `json:"repayment_frequency"`
	BusinessDayRule    string          `json:"business_day_rule"`
	TenureMonths       int             `json:"tenure_months"`
	StartDate          time.Time       `json:"start_date"`
	CalendarID         string          `json:"calendar_id,omitempty"`

	ScheduleKind    string          `json:"schedule_kind"`
	StepPercent     decimal.Decimal `json:"step_percent,omitempty"`
	StepEveryMonths int             `json:"step_every_months,omitempty"`
	BalloonPercent  decimal.Decimal `json:"balloon_percent,omitempty"`
	BalloonAmount   decimal.Decimal `json:"balloon_amount,omitempty"`

	MoratoriumMonths  int    `json:"moratorium_months,omitempty"`
	MoratoriumKind    string `json:"moratorium_kind,omitempty"`
	InterestTreatment string `json:"interest_treatment,omitempty"`

	Benchmark      string           `json:"benchmark,omitempty"`
	Spread         decimal.Decimal  `json:"spread,omitempty"`
	RateFloor      *decimal.Decimal `json:"rate_floor,omitempty"`
	RateCap        *decimal.Decimal `json:"rate_cap,omitempty"`
	ResetFrequency string           `json:"reset_frequency,omitempty"`
	FirstResetDate time.Time        `json:"first_reset_date,omitempty"`
}

// MakePaymentRequest carries an incoming payment. Reference is the caller's
// idempotency key: repeating a request with the same reference replays the
// original result instead of double-allocating.
type MakePaymentRequest struct {
	LoanID     string          `json:"loan_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Reference  string          `json:"reference,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
}

// ReversePaymentRequest identifies a payment to back out of a loan.
type ReversePaymentRequest struct {
	LoanID    string `json:"loan_id"`
	PaymentID string `json:"payment_id"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// GetScheduleRequest identifies a loan whose repayment schedule to retrieve.
type GetScheduleRequest struct {
	LoanID string `json:"loan_id"`
}

// RecordBenchmarkRateRequest carries a published fixing of a reference rate.
type RecordBenchmarkRateRequest struct {
	Benchmark     string          `json:"benchmark"`
	EffectiveDate time.Time       `json:"effective_date"`
	Rate          decimal.Decimal `json:"rate"`
}

// ApplyRateResetRequest reprices a floating-rate loan. A zero reset_date
// means "as of now".
type ApplyRateResetRequest struct {
	LoanID    string    `json:"loan_id"`
	ResetDate time.Time `json:"reset_date,omitempty"`
}

// RegenerateScheduleRequest re-amortizes the unpaid tail of a loan's
// schedule at its current rate.
type RegenerateScheduleRequest struct {
	LoanID string `json:"loan_id"`
}

// SnapshotDelinquencyRequest records a dated delinquency snapshot for one
// loan. A zero as_of_date means "as of today".
type SnapshotDelinquencyRequest struct {
	LoanID   string    `json:"loan_id"`
	AsOfDate time.Time `json:"as_of_date,omitempty"`
}

// RunEndOfDayRequest triggers the end-of-day batch over all active loans.
// A zero as_of_date means "as of today".
type RunEndOfDayRequest struct {
	AsOfDate time.Time `json:"as_of_date,omitempty"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// InstallmentResponse is the external representation of one schedule row.
type InstallmentResponse struct {
	Number         int             `json:"number"`
	DueDate        time.Time       `json:"due_date"`
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	PrincipalDue   decimal.Decimal `json:"principal_due"`
	InterestDue    decimal.Decimal `json:"interest_due"`
	FeesDue        decimal.Decimal `json:"fees_due"`
	TotalDue       decimal.Decimal `json:"total_due"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	PrincipalPaid  decimal.Decimal `json:"principal_paid"`
	InterestPaid   decimal.Decimal `json:"interest_paid"`
	FeesPaid       decimal.Decimal `json:"fees_paid"`
	IsMoratorium   bool            `json:"is_moratorium,omitempty"`
	StepNumber     int             `json:"step_number,omitempty"`
	Status         string          `json:"status"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	ID                   string                `json:"id"`
	BorrowerID           string                `json:"borrower_id"`
	Principal            decimal.Decimal       `json:"principal"`
	Currency             string                `json:"currency"`
	AnnualRate           decimal.Decimal       `json:"annual_rate"`
	CurrentRate          decimal.Decimal       `json:"current_rate"`
	RateBasis            string                `json:"rate_basis"`
	DayCount             string                `json:"day_count"`
	RepaymentFrequency   string                `json:"repayment_frequency"`
	TenureMonths         int                   `json:"tenure_months"`
	StartDate            time.Time             `json:"start_date"`
	Status               string                `json:"status"`
	PrincipalOutstanding decimal.Decimal       `json:"principal_outstanding"`
	InterestOutstanding  decimal.Decimal       `json:"interest_outstanding"`
	FeesOutstanding      decimal.Decimal       `json:"fees_outstanding"`
	TotalOutstanding     decimal.Decimal       `json:"total_outstanding"`
	NextDueDate          *time.Time            `json:"next_due_date,omitempty"`
	NextDueAmount        decimal.Decimal       `json:"next_due_amount"`
	DaysPastDue          int                   `json:"days_past_due"`
	IsNPA                bool                  `json:"is_npa"`
	NPADate              *time.Time            `json:"npa_date,omitempty"`
	Benchmark            string                `json:"benchmark,omitempty"`
	NextResetDate        *time.Time            `json:"next_reset_date,omitempty"`
	Version              int                   `json:"version"`
	Schedule             []InstallmentResponse `json:"schedule,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// ScheduleResponse is a loan's full repayment schedule.
type ScheduleResponse struct {
	LoanID        string                `json:"loan_id"`
	Currency      string                `json:"currency"`
	EffectiveRate decimal.Decimal       `json:"effective_rate"`
	Installments  []InstallmentResponse `json:"installments"`
}

// AllocationResponse shows how much of a payment went to one installment.
type AllocationResponse struct {
	InstallmentNumber int             `json:"installment_number"`
	Fees              decimal.Decimal `json:"fees"`
	Interest          decimal.Decimal `json:"interest"`
	Principal         decimal.Decimal `json:"principal"`
}

// PaymentResponse is the external representation of a payment and its
// allocation result.
type PaymentResponse struct {
	ID               string               `json:"id"`
	LoanID           string               `json:"loan_id"`
	Amount           decimal.Decimal      `json:"amount"`
	Currency         string               `json:"currency"`
	Reference        string               `json:"reference,omitempty"`
	ReceivedAt       time.Time            `json:"received_at"`
	Allocations      []AllocationResponse `json:"allocations"`
	Unallocated      decimal.Decimal      `json:"unallocated"`
	Reversed         bool                 `json:"reversed"`
	LoanStatus       string               `json:"loan_status"`
	TotalOutstanding decimal.Decimal      `json:"total_outstanding"`
}

// BenchmarkRateResponse is the external representation of a recorded fixing.
type BenchmarkRateResponse struct {
	Benchmark     string          `json:"benchmark"`
	EffectiveDate time.Time       `json:"effective_date"`
	Rate          decimal.Decimal `json:"rate"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RegenerateScheduleResponse reports the outcome of a schedule
// regeneration. FromInstallment is the first regenerated row number; zero
// means the schedule was already fully settled and nothing changed.
type RegenerateScheduleResponse struct {
	LoanID          string                `json:"loan_id"`
	EffectiveRate   decimal.Decimal       `json:"effective_rate"`
	FromInstallment int                   `json:"from_installment"`
	Schedule        []InstallmentResponse `json:"schedule"`
}

// DelinquencySnapshotResponse is the external representation of a dated
// delinquency snapshot. AlreadyExisted reports that a snapshot for the
// (loan, date) pair had been taken before and the stored row was returned.
type DelinquencySnapshotResponse struct {
	ID                  string          `json:"id"`
	LoanID              string          `json:"loan_id"`
	AsOfDate            time.Time       `json:"as_of_date"`
	DaysPastDue         int             `json:"days_past_due"`
	Bucket              string          `json:"bucket"`
	PrincipalOverdue    decimal.Decimal `json:"principal_overdue"`
	InterestOverdue     decimal.Decimal `json:"interest_overdue"`
	FeesOverdue         decimal.Decimal `json:"fees_overdue"`
	OldestUnpaidDueDate *time.Time      `json:"oldest_unpaid_due_date,omitempty"`
	IsNPA               bool            `json:"is_npa"`
	AlreadyExisted      bool            `json:"already_existed,omitempty"`
}

// EndOfDayErrorResponse records one loan the batch could not process.
type EndOfDayErrorResponse struct {
	LoanID string `json:"loan_id"`
	Error  string `json:"error"`
}

// EndOfDayStageResponse summarizes one stage of the end-of-day batch.
type EndOfDayStageResponse struct {
	Total     int                     `json:"total"`
	Processed int                     `json:"processed"`
	Skipped   int                     `json:"skipped"`
	Errors    []EndOfDayErrorResponse `json:"errors,omitempty"`
}

// EndOfDayResponse summarizes an end-of-day batch run.
type EndOfDayResponse struct {
	AsOfDate   time.Time             `json:"as_of_date"`
	RateResets EndOfDayStageResponse `json:"rate_resets"`
	Snapshots  EndOfDayStageResponse `json:"snapshots"`
}
