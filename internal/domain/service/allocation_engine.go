package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
)

// ---------------------------------------------------------------------------
// AllocationEngine – waterfall application of payments to installments
// ---------------------------------------------------------------------------

// AllocationEngine applies payments across a schedule in strict
// (due date, installment number) order, splitting each installment
// fees first, then interest, then principal. Whatever cannot be applied is
// returned, never dropped.
type AllocationEngine struct{}

// NewAllocationEngine creates an allocation engine.
func NewAllocationEngine() *AllocationEngine {
	return &AllocationEngine{}
}

// Allocate distributes amount across the schedule and returns the updated
// installments, the per-installment allocation rows, and the unapplied
// remainder. The schedule keeps its original positions; only the visiting
// order follows (due date, number). An installment is left only when fully
// covered or when the funds run out.
func (e *AllocationEngine) Allocate(amount decimal.Decimal, installments []model.Installment) ([]model.Installment, []model.Allocation, decimal.Decimal) {
	out := model.CloneInstallments(installments)
	if !amount.IsPositive() {
		return out, nil, amount
	}

	order := allocationOrder(out)
	var allocations []model.Allocation
	left := amount

	for _, idx := range order {
		if !left.IsPositive() {
			break
		}
		row := &out[idx]
		if row.IsSettled() {
			continue
		}

		alloc := model.Allocation{
			InstallmentNumber: row.Number,
			Fees:              decimal.Zero,
			Interest:          decimal.Zero,
			Principal:         decimal.Zero,
		}
		alloc.Fees, left = take(row.OutstandingFees(), left)
		row.FeesPaid = row.FeesPaid.Add(alloc.Fees)
		alloc.Interest, left = take(row.OutstandingInterest(), left)
		row.InterestPaid = row.InterestPaid.Add(alloc.Interest)
		alloc.Principal, left = take(row.OutstandingPrincipal(), left)
		row.PrincipalPaid = row.PrincipalPaid.Add(alloc.Principal)

		if alloc.Total().IsPositive() {
			*row = row.RefreshStatus()
			allocations = append(allocations, alloc)
		}
	}

	return out, allocations, left
}

// Reverse backs a payment's allocations out of the schedule, restoring each
// touched installment's paid amounts and status. It fails if the schedule
// no longer carries what the payment allocated.
func (e *AllocationEngine) Reverse(payment model.Payment, installments []model.Installment) ([]model.Installment, error) {
	out := model.CloneInstallments(installments)
	byNumber := make(map[int]int, len(out))
	for i, row := range out {
		byNumber[row.Number] = i
	}

	for _, alloc := range payment.Allocations() {
		idx, ok := byNumber[alloc.InstallmentNumber]
		if !ok {
			return nil, fmt.Errorf("reverse payment %s: installment %d no longer exists", payment.ID(), alloc.InstallmentNumber)
		}
		row := &out[idx]
		if row.FeesPaid.LessThan(alloc.Fees) || row.InterestPaid.LessThan(alloc.Interest) || row.PrincipalPaid.LessThan(alloc.Principal) {
			return nil, fmt.Errorf("reverse payment %s: installment %d holds less than the payment allocated", payment.ID(), alloc.InstallmentNumber)
		}
		row.FeesPaid = row.FeesPaid.Sub(alloc.Fees)
		row.InterestPaid = row.InterestPaid.Sub(alloc.Interest)
		row.PrincipalPaid = row.PrincipalPaid.Sub(alloc.Principal)
		*row = row.RefreshStatus()
	}

	return out, nil
}

// allocationOrder returns schedule indexes sorted by (due date, number).
// Business-day adjustment can roll neighbouring due dates onto or past each
// other, so number order alone is not enough.
func allocationOrder(installments []model.Installment) []int {
	order := make([]int, len(installments))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := installments[order[a]], installments[order[b]]
		if !ia.DueDate.Equal(ib.DueDate) {
			return ia.DueDate.Before(ib.DueDate)
		}
		return ia.Number < ib.Number
	})
	return order
}

// take removes up to limit from available funds, returning the taken amount
// and what is left.
func take(outstanding, funds decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if !outstanding.IsPositive() || !funds.IsPositive() {
		return decimal.Zero, funds
	}
	if funds.LessThan(outstanding) {
		return funds, decimal.Zero
	}
	return outstanding, funds.Sub(outstanding)
}
