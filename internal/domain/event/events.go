package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Loan lifecycle events
// ---------------------------------------------------------------------------

// LoanDisbursed is raised when a loan is booked and its schedule generated.
type LoanDisbursed struct {
	events.BaseEvent
	BorrowerID    string          `json:"borrower_id"`
	Principal     decimal.Decimal `json:"principal"`
	Currency      string          `json:"currency"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
	TenureMonths  int             `json:"tenure_months"`
	Installments  int             `json:"installments"`
	FirstDueDate  time.Time       `json:"first_due_date"`
	ScheduleKind  string          `json:"schedule_kind"`
	DisbursedAt   time.Time       `json:"disbursed_at"`
}

func NewLoanDisbursed(
	loanID, borrowerID string,
	principal decimal.Decimal, currency string,
	effectiveRate decimal.Decimal,
	tenureMonths, installments int,
	firstDueDate time.Time, scheduleKind string, disbursedAt time.Time,
) LoanDisbursed {
	return LoanDisbursed{
		BaseEvent:     events.NewBaseEvent("lms.loan.disbursed", loanID, "Loan"),
		BorrowerID:    borrowerID,
		Principal:     principal,
		Currency:      currency,
		EffectiveRate: effectiveRate,
		TenureMonths:  tenureMonths,
		Installments:  installments,
		FirstDueDate:  firstDueDate,
		ScheduleKind:  scheduleKind,
		DisbursedAt:   disbursedAt,
	}
}

// LoanClosed is raised when every outstanding component reaches zero.
type LoanClosed struct {
	events.BaseEvent
	ClosedAt time.Time `json:"closed_at"`
}

func NewLoanClosed(loanID string, closedAt time.Time) LoanClosed {
	return LoanClosed{
		BaseEvent: events.NewBaseEvent("lms.loan.closed", loanID, "Loan"),
		ClosedAt:  closedAt,
	}
}

// LoanReopened is raised when a reversal leaves a closed loan with an
// outstanding balance again.
type LoanReopened struct {
	events.BaseEvent
	PrincipalOutstanding decimal.Decimal `json:"principal_outstanding"`
	ReopenedAt           time.Time       `json:"reopened_at"`
}

func NewLoanReopened(loanID string, principalOutstanding decimal.Decimal, reopenedAt time.Time) LoanReopened {
	return LoanReopened{
		BaseEvent:            events.NewBaseEvent("lms.loan.reopened", loanID, "Loan"),
		PrincipalOutstanding: principalOutstanding,
		ReopenedAt:           reopenedAt,
	}
}

// ---------------------------------------------------------------------------
// Payment events
// ---------------------------------------------------------------------------

// PaymentReceived is raised when a payment is allocated against a loan.
type PaymentReceived struct {
	events.BaseEvent
	PaymentID   string          `json:"payment_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Unallocated decimal.Decimal `json:"unallocated"`
	ReceivedAt  time.Time       `json:"received_at"`
}

func NewPaymentReceived(
	loanID, paymentID string,
	amount decimal.Decimal, currency string,
	unallocated decimal.Decimal, receivedAt time.Time,
) PaymentReceived {
	return PaymentReceived{
		BaseEvent:   events.NewBaseEvent("lms.loan.payment_received", loanID, "Loan"),
		PaymentID:   paymentID,
		Amount:      amount,
		Currency:    currency,
		Unallocated: unallocated,
		ReceivedAt:  receivedAt,
	}
}

// PaymentReversed is raised when a previously applied payment is backed out.
type PaymentReversed struct {
	events.BaseEvent
	PaymentID  string          `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	ReversedAt time.Time       `json:"reversed_at"`
}

func NewPaymentReversed(loanID, paymentID string, amount decimal.Decimal, reversedAt time.Time) PaymentReversed {
	return PaymentReversed{
		BaseEvent:  events.NewBaseEvent("lms.loan.payment_reversed", loanID, "Loan"),
		PaymentID:  paymentID,
		Amount:     amount,
		ReversedAt: reversedAt,
	}
}

// ---------------------------------------------------------------------------
// Rate events
// ---------------------------------------------------------------------------

// RateResetApplied is raised when a floating loan's current rate is rebased
// against its benchmark. The schedule is untouched until regeneration is
// requested explicitly.
type RateResetApplied struct {
	events.BaseEvent
	OldRate       decimal.Decimal `json:"old_rate"`
	NewRate       decimal.Decimal `json:"new_rate"`
	ResetDate     time.Time       `json:"reset_date"`
	NextResetDate time.Time       `json:"next_reset_date"`
}

func NewRateResetApplied(loanID string, oldRate, newRate decimal.Decimal, resetDate, nextResetDate time.Time) RateResetApplied {
	return RateResetApplied{
		BaseEvent:     events.NewBaseEvent("lms.loan.rate_reset_applied", loanID, "Loan"),
		OldRate:       oldRate,
		NewRate:       newRate,
		ResetDate:     resetDate,
		NextResetDate: nextResetDate,
	}
}

// ScheduleRegenerated is raised when the unpaid remainder of a schedule is
// re-amortized at the loan's current rate.
type ScheduleRegenerated struct {
	events.BaseEvent
	Rate            decimal.Decimal `json:"rate"`
	FromInstallment int             `json:"from_installment"`
	Installments    int             `json:"installments"`
	RegeneratedAt   time.Time       `json:"regenerated_at"`
}

func NewScheduleRegenerated(loanID string, rate decimal.Decimal, fromInstallment, installments int, regeneratedAt time.Time) ScheduleRegenerated {
	return ScheduleRegenerated{
		BaseEvent:       events.NewBaseEvent("lms.loan.schedule_regenerated", loanID, "Loan"),
		Rate:            rate,
		FromInstallment: fromInstallment,
		Installments:    installments,
		RegeneratedAt:   regeneratedAt,
	}
}

// ---------------------------------------------------------------------------
// Delinquency events
// ---------------------------------------------------------------------------

// LoanClassifiedNPA is raised when a loan crosses the NPA threshold.
type LoanClassifiedNPA struct {
	events.BaseEvent
	DaysPastDue int       `json:"days_past_due"`
	NPADate     time.Time `json:"npa_date"`
}

func NewLoanClassifiedNPA(loanID string, daysPastDue int, npaDate time.Time) LoanClassifiedNPA {
	return LoanClassifiedNPA{
		BaseEvent:   events.NewBaseEvent("lms.loan.classified_npa", loanID, "Loan"),
		DaysPastDue: daysPastDue,
		NPADate:     npaDate,
	}
}

// LoanCured is raised when an NPA loan returns to zero days past due.
type LoanCured struct {
	events.BaseEvent
	CuredAt time.Time `json:"cured_at"`
}

func NewLoanCured(loanID string, curedAt time.Time) LoanCured {
	return LoanCured{
		BaseEvent: events.NewBaseEvent("lms.loan.cured", loanID, "Loan"),
		CuredAt:   curedAt,
	}
}

// DelinquencySnapshotTaken is raised when a dated delinquency snapshot is
// first created for a loan.
type DelinquencySnapshotTaken struct {
	events.BaseEvent
	AsOfDate    time.Time `json:"as_of_date"`
	DaysPastDue int       `json:"days_past_due"`
	Bucket      string    `json:"bucket"`
	IsNPA       bool      `json:"is_npa"`
}

func NewDelinquencySnapshotTaken(loanID string, asOfDate time.Time, daysPastDue int, bucket string, isNPA bool) DelinquencySnapshotTaken {
	return DelinquencySnapshotTaken{
		BaseEvent:   events.NewBaseEvent("lms.loan.delinquency_snapshot_taken", loanID, "Loan"),
		AsOfDate:    asOfDate,
		DaysPastDue: daysPastDue,
		Bucket:      bucket,
		IsNPA:       isNPA,
	}
}
