package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/event"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/daycount"
)

// NPAThresholdDays is the days-past-due threshold at which a loan is
// classified non-performing.
const NPAThresholdDays = 90

// ErrFixedRateLoan is returned when a rate reset is attempted on a loan
// without a floating basis.
var ErrFixedRateLoan = errors.New("rate resets apply only to floating-rate loans")

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy.
//
// The aggregate owns the repayment schedule and the loan-level outstanding
// figures. Outstanding figures are always derived from the installment set,
// never adjusted incrementally, so the schedule is the single source of
// truth after any allocation or reversal.
type Loan struct {
	id                   string
	borrowerID           string
	terms                LoanTerms
	currentRate          decimal.Decimal
	nextResetDate        time.Time
	installments         []Installment
	principalOutstanding decimal.Decimal
	interestOutstanding  decimal.Decimal
	feesOutstanding      decimal.Decimal
	nextDueDate          time.Time
	nextDueAmount        decimal.Decimal
	daysPastDue          int
	isNPA                bool
	npaDate              time.Time
	status               valueobject.LoanStatus
	version              int
	createdAt            time.Time
	updatedAt            time.Time
	domainEvents         []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoan books a disbursed loan with its freshly generated schedule. The
// loan starts ACTIVE at the effective rate the schedule was priced with.
func NewLoan(
	borrowerID string,
	terms LoanTerms,
	effectiveRate decimal.Decimal,
	installments []Installment,
	now time.Time,
) (Loan, error) {
	if borrowerID == "" {
		return Loan{}, valueobject.NewConfigurationError("borrower_id", "is required")
	}
	if terms.IsZero() {
		return Loan{}, valueobject.NewConfigurationError("terms", "are required")
	}
	if len(installments) == 0 {
		return Loan{}, valueobject.NewConfigurationError("schedule", "must contain at least one installment")
	}
	if effectiveRate.IsNegative() {
		return Loan{}, valueobject.NewConfigurationError("effective_rate", "must not be negative")
	}

	id := uuid.New().String()

	var nextReset time.Time
	if floating, ok := terms.Floating(); ok {
		nextReset = floating.FirstResetDate()
		if nextReset.IsZero() {
			nextReset = daycount.AddPeriod(terms.StartDate(), floating.ResetFrequency(), 1)
		}
	}

	loan := Loan{
		id:            id,
		borrowerID:    borrowerID,
		terms:         terms,
		currentRate:   effectiveRate,
		nextResetDate: nextReset,
		status:        valueobject.LoanStatusActive,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}
	loan = loan.withSchedule(installments, now)

	loan.domainEvents = append(loan.domainEvents, event.NewLoanDisbursed(
		id, borrowerID,
		terms.Principal(), terms.Currency().Code(),
		effectiveRate,
		terms.TenureMonths(), len(installments),
		loan.nextDueDate, terms.Variant().Kind().String(), now,
	))

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, borrowerID string,
	terms LoanTerms,
	currentRate decimal.Decimal,
	nextResetDate time.Time,
	installments []Installment,
	daysPastDue int,
	isNPA bool,
	npaDate time.Time,
	status valueobject.LoanStatus,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	loan := Loan{
		id:            id,
		borrowerID:    borrowerID,
		terms:         terms,
		currentRate:   currentRate,
		nextResetDate: nextResetDate,
		daysPastDue:   daysPastDue,
		isNPA:         isNPA,
		npaDate:       npaDate,
		status:        status,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
	loan.installments = CloneInstallments(installments)
	loan.principalOutstanding, loan.interestOutstanding, loan.feesOutstanding = sumOutstanding(installments)
	loan.nextDueDate, loan.nextDueAmount = nextUnsettled(installments)
	return loan
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// ApplyPayment replaces the schedule with its post-allocation state and
// records the payment. A loan whose outstanding components all reach exactly
// zero closes.
func (l Loan) ApplyPayment(payment Payment, installments []Installment, now time.Time) (Loan, error) {
	if payment.Currency() != l.terms.Currency() {
		return l, valueobject.NewConfigurationError("currency", "payment currency does not match the loan")
	}

	next := l.withSchedule(installments, now)
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewPaymentReceived(
		l.id, payment.ID(), payment.Amount(), payment.Currency().Code(),
		payment.Unallocated(), payment.ReceivedAt(),
	))

	if next.totalOutstanding().IsZero() && l.status.Equal(valueobject.LoanStatusActive) {
		next.status = valueobject.LoanStatusClosed
		next.domainEvents = append(next.domainEvents, event.NewLoanClosed(l.id, now))
	}

	return next, nil
}

// ApplyReversal replaces the schedule with its post-reversal state and backs
// the payment out. A closed loan left with an outstanding balance reopens.
func (l Loan) ApplyReversal(payment Payment, installments []Installment, now time.Time) Loan {
	next := l.withSchedule(installments, now)
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewPaymentReversed(
		l.id, payment.ID(), payment.Amount(), now,
	))

	if next.totalOutstanding().IsPositive() && l.status.Equal(valueobject.LoanStatusClosed) {
		next.status = valueobject.LoanStatusActive
		next.domainEvents = append(next.domainEvents, event.NewLoanReopened(l.id, next.principalOutstanding, now))
	}

	return next
}

// ApplyRateReset rebases the loan's current rate against its benchmark. The
// schedule is untouched; regeneration is a separate, explicit operation.
func (l Loan) ApplyRateReset(newRate decimal.Decimal, resetDate, nextResetDate, now time.Time) (Loan, error) {
	if !l.terms.IsFloating() {
		return l, ErrFixedRateLoan
	}
	next := l
	next.currentRate = newRate
	next.nextResetDate = nextResetDate
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewRateResetApplied(
		l.id, l.currentRate, newRate, resetDate, nextResetDate,
	))
	return next, nil
}

// WithRegeneratedSchedule replaces the schedule after the unpaid remainder
// has been re-amortized at the current rate. Settled rows are preserved by
// the generator, so outstanding figures stay consistent.
func (l Loan) WithRegeneratedSchedule(installments []Installment, fromInstallment int, now time.Time) Loan {
	next := l.withSchedule(installments, now)
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewScheduleRegenerated(
		l.id, l.currentRate, fromInstallment, len(installments), now,
	))
	return next
}

// Reclassify records the valuation-date days past due and runs the NPA state
// machine: a loan becomes NPA at or beyond the threshold, stays NPA while
// anything is overdue, and cures only when days past due return to zero.
func (l Loan) Reclassify(daysPastDue int, asOf, now time.Time) Loan {
	next := l
	next.daysPastDue = daysPastDue
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)

	switch {
	case !l.isNPA && daysPastDue >= NPAThresholdDays:
		next.isNPA = true
		next.npaDate = asOf
		next.domainEvents = append(next.domainEvents, event.NewLoanClassifiedNPA(l.id, daysPastDue, asOf))
	case l.isNPA && daysPastDue == 0:
		next.isNPA = false
		next.npaDate = time.Time{}
		next.domainEvents = append(next.domainEvents, event.NewLoanCured(l.id, now))
	}

	return next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                            { return l.id }
func (l Loan) BorrowerID() string                    { return l.borrowerID }
func (l Loan) Terms() LoanTerms                      { return l.terms }
func (l Loan) CurrentRate() decimal.Decimal          { return l.currentRate }
func (l Loan) NextResetDate() time.Time              { return l.nextResetDate }
func (l Loan) PrincipalOutstanding() decimal.Decimal { return l.principalOutstanding }
func (l Loan) InterestOutstanding() decimal.Decimal  { return l.interestOutstanding }
func (l Loan) FeesOutstanding() decimal.Decimal      { return l.feesOutstanding }
func (l Loan) NextDueDate() time.Time                { return l.nextDueDate }
func (l Loan) NextDueAmount() decimal.Decimal        { return l.nextDueAmount }
func (l Loan) DaysPastDue() int                      { return l.daysPastDue }
func (l Loan) IsNPA() bool                           { return l.isNPA }
func (l Loan) NPADate() time.Time                    { return l.npaDate }
func (l Loan) Status() valueobject.LoanStatus        { return l.status }
func (l Loan) Version() int                          { return l.version }
func (l Loan) CreatedAt() time.Time                  { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                  { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent     { return l.domainEvents }

// Installments returns a copy of the schedule. Mutating it does not touch
// the aggregate.
func (l Loan) Installments() []Installment {
	return CloneInstallments(l.installments)
}

// TotalOutstanding returns the sum of the three outstanding components.
func (l Loan) TotalOutstanding() decimal.Decimal {
	return l.totalOutstanding()
}

// RateResetDue reports whether a floating loan's next reset date has been
// reached on asOf.
func (l Loan) RateResetDue(asOf time.Time) bool {
	return l.terms.IsFloating() && !l.nextResetDate.IsZero() && !l.nextResetDate.After(asOf)
}

// ClearEvents returns a copy with an empty event list (call after publishing).
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// withSchedule swaps in a schedule and re-derives every loan-level figure
// from it.
func (l Loan) withSchedule(installments []Installment, now time.Time) Loan {
	next := l
	next.installments = CloneInstallments(installments)
	next.principalOutstanding, next.interestOutstanding, next.feesOutstanding = sumOutstanding(installments)
	next.nextDueDate, next.nextDueAmount = nextUnsettled(installments)
	next.updatedAt = now
	return next
}

func (l Loan) totalOutstanding() decimal.Decimal {
	return l.feesOutstanding.Add(l.interestOutstanding).Add(l.principalOutstanding)
}

func sumOutstanding(installments []Installment) (principal, interest, fees decimal.Decimal) {
	principal, interest, fees = decimal.Zero, decimal.Zero, decimal.Zero
	for _, inst := range installments {
		principal = principal.Add(inst.OutstandingPrincipal())
		interest = interest.Add(inst.OutstandingInterest())
		fees = fees.Add(inst.OutstandingFees())
	}
	return principal, interest, fees
}

func nextUnsettled(installments []Installment) (dueDate time.Time, amount decimal.Decimal) {
	for _, inst := range installments {
		if !inst.IsSettled() {
			return inst.DueDate, inst.TotalOutstanding()
		}
	}
	return time.Time{}, decimal.Zero
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
