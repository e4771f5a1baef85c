package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/money"
)

// ErrPaymentReversed is returned when a reversal is attempted on a payment
// that has already been reversed.
var ErrPaymentReversed = errors.New("payment already reversed")

// ---------------------------------------------------------------------------
// Allocation – one payment's split against one installment
// ---------------------------------------------------------------------------

// Allocation records how much of a payment went to each component of a
// single installment. Reversal replays these rows in the opposite
// direction, so they are persisted alongside the payment.
type Allocation struct {
	InstallmentNumber int
	Fees              decimal.Decimal
	Interest          decimal.Decimal
	Principal         decimal.Decimal
}

// Total returns the sum of the allocated components.
func (a Allocation) Total() decimal.Decimal {
	return a.Fees.Add(a.Interest).Add(a.Principal)
}

// ---------------------------------------------------------------------------
// Payment aggregate
// ---------------------------------------------------------------------------

// Payment is an immutable record of funds received against a loan, together
// with the allocation that resulted. Mutations return a new copy.
type Payment struct {
	id          string
	loanID      string
	amount      decimal.Decimal
	currency    money.Currency
	receivedAt  time.Time
	reference   string
	allocations []Allocation
	unallocated decimal.Decimal
	reversed    bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewPayment validates and books an incoming payment. The reference is the
// caller's idempotency key and may be empty. Until allocation runs, the
// whole amount is unallocated.
func NewPayment(
	loanID string,
	amount decimal.Decimal,
	currencyCode, reference string,
	receivedAt, now time.Time,
) (Payment, error) {
	if loanID == "" {
		return Payment{}, valueobject.NewConfigurationError("loan_id", "is required")
	}
	if !amount.IsPositive() {
		return Payment{}, valueobject.NewConfigurationError("amount", "must be positive")
	}
	currency, err := money.NewCurrency(currencyCode)
	if err != nil {
		return Payment{}, valueobject.NewConfigurationError("currency", err.Error())
	}
	if receivedAt.IsZero() {
		receivedAt = now
	}
	return Payment{
		id:          uuid.New().String(),
		loanID:      loanID,
		amount:      amount,
		currency:    currency,
		receivedAt:  receivedAt,
		reference:   reference,
		unallocated: amount,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructPayment rebuilds a Payment from persistence.
func ReconstructPayment(
	id, loanID string,
	amount decimal.Decimal,
	currency money.Currency,
	receivedAt time.Time,
	reference string,
	allocations []Allocation,
	unallocated decimal.Decimal,
	reversed bool,
	createdAt, updatedAt time.Time,
) Payment {
	return Payment{
		id:          id,
		loanID:      loanID,
		amount:      amount,
		currency:    currency,
		receivedAt:  receivedAt,
		reference:   reference,
		allocations: copyAllocations(allocations),
		unallocated: unallocated,
		reversed:    reversed,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// WithAllocations records the allocation result: the per-installment splits
// and whatever remainder could not be applied.
func (p Payment) WithAllocations(allocations []Allocation, unallocated decimal.Decimal, now time.Time) Payment {
	next := p
	next.allocations = copyAllocations(allocations)
	next.unallocated = unallocated
	next.updatedAt = now
	return next
}

// MarkReversed flags the payment as backed out. Reversing twice is an error.
func (p Payment) MarkReversed(now time.Time) (Payment, error) {
	if p.reversed {
		return p, ErrPaymentReversed
	}
	next := p
	next.reversed = true
	next.updatedAt = now
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (p Payment) ID() string                   { return p.id }
func (p Payment) LoanID() string               { return p.loanID }
func (p Payment) Amount() decimal.Decimal      { return p.amount }
func (p Payment) Currency() money.Currency     { return p.currency }
func (p Payment) ReceivedAt() time.Time        { return p.receivedAt }
func (p Payment) Reference() string            { return p.reference }
func (p Payment) Unallocated() decimal.Decimal { return p.unallocated }
func (p Payment) IsReversed() bool             { return p.reversed }
func (p Payment) CreatedAt() time.Time         { return p.createdAt }
func (p Payment) UpdatedAt() time.Time         { return p.updatedAt }

// Allocations returns a copy of the allocation rows. Mutating it does not
// touch the payment.
func (p Payment) Allocations() []Allocation {
	return copyAllocations(p.allocations)
}

// AllocatedAmount returns how much of the payment was applied.
func (p Payment) AllocatedAmount() decimal.Decimal {
	return p.amount.Sub(p.unallocated)
}

func copyAllocations(src []Allocation) []Allocation {
	if src == nil {
		return nil
	}
	dst := make([]Allocation, len(src))
	copy(dst, src)
	return dst
}
