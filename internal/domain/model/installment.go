package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
)

// Installment is one row of a repayment schedule. Due amounts are fixed when
// the schedule is generated (or regenerated); paid amounts and status move as
// payments are allocated and reversed.
//
// Fields are exported because installments are plain schedule rows, not
// aggregates: the schedule generator produces them, the allocation engine
// rewrites them, and the Loan aggregate owns the resulting slice.
type Installment struct {
	Number         int
	DueDate        time.Time
	PeriodStart    time.Time
	PeriodEnd      time.Time
	OpeningBalance decimal.Decimal
	PrincipalDue   decimal.Decimal
	InterestDue    decimal.Decimal
	FeesDue        decimal.Decimal
	TotalDue       decimal.Decimal
	ClosingBalance decimal.Decimal
	PrincipalPaid  decimal.Decimal
	InterestPaid   decimal.Decimal
	FeesPaid       decimal.Decimal
	IsMoratorium   bool
	StepNumber     int
	Status         valueobject.InstallmentStatus
}

// OutstandingPrincipal returns the unpaid principal component.
func (i Installment) OutstandingPrincipal() decimal.Decimal {
	return i.PrincipalDue.Sub(i.PrincipalPaid)
}

// OutstandingInterest returns the unpaid interest component.
func (i Installment) OutstandingInterest() decimal.Decimal {
	return i.InterestDue.Sub(i.InterestPaid)
}

// OutstandingFees returns the unpaid fees component.
func (i Installment) OutstandingFees() decimal.Decimal {
	return i.FeesDue.Sub(i.FeesPaid)
}

// TotalOutstanding returns the sum of the unpaid components.
func (i Installment) TotalOutstanding() decimal.Decimal {
	return i.OutstandingFees().Add(i.OutstandingInterest()).Add(i.OutstandingPrincipal())
}

// IsSettled reports whether nothing remains to pay on the installment.
func (i Installment) IsSettled() bool {
	return !i.TotalOutstanding().IsPositive()
}

// AmountPaid returns the sum of the paid components.
func (i Installment) AmountPaid() decimal.Decimal {
	return i.FeesPaid.Add(i.InterestPaid).Add(i.PrincipalPaid)
}

// IsOverdue reports whether the installment is due on or before asOf with a
// positive remainder.
func (i Installment) IsOverdue(asOf time.Time) bool {
	return !i.DueDate.After(asOf) && i.TotalOutstanding().IsPositive()
}

// RefreshStatus derives the installment status from its paid amounts: paid
// once nothing remains, partial once any amount has been applied, pending
// otherwise. Returns the updated copy.
func (i Installment) RefreshStatus() Installment {
	switch {
	case i.IsSettled():
		i.Status = valueobject.InstallmentStatusPaid
	case i.AmountPaid().IsPositive():
		i.Status = valueobject.InstallmentStatusPartial
	default:
		i.Status = valueobject.InstallmentStatusPending
	}
	return i
}

// CloneInstallments returns a deep copy of a schedule. Decimal values are
// immutable, so copying the slice copies everything that matters.
func CloneInstallments(installments []Installment) []Installment {
	if installments == nil {
		return nil
	}
	out := make([]Installment, len(installments))
	copy(out, installments)
	return out
}
