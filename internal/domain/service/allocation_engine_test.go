package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/service"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
)

func dueRow(number int, due time.Time, fees, interest, principal string) model.Installment {
	row := model.Installment{
		Number:       number,
		DueDate:      due,
		PrincipalDue: dec(principal),
		InterestDue:  dec(interest),
		FeesDue:      dec(fees),
		Status:       valueobject.InstallmentStatusPending,
	}
	row.TotalDue = row.PrincipalDue.Add(row.InterestDue).Add(row.FeesDue)
	return row
}

func TestAllocateWaterfallWithinInstallment(t *testing.T) {
	engine := service.NewAllocationEngine()
	rows := []model.Installment{
		dueRow(1, date(2024, time.March, 1), "100", "1000", "8000"),
	}

	updated, allocations, remainder := engine.Allocate(dec("9000"), rows)

	require.Len(t, allocations, 1)
	alloc := allocations[0]
	assert.Equal(t, 1, alloc.InstallmentNumber)
	assert.True(t, alloc.Fees.Equal(dec("100")), "fees are served first, got %s", alloc.Fees)
	assert.True(t, alloc.Interest.Equal(dec("1000")), "interest is served second, got %s", alloc.Interest)
	assert.True(t, alloc.Principal.Equal(dec("7900")), "principal takes the rest, got %s", alloc.Principal)
	assert.True(t, remainder.IsZero())

	row := updated[0]
	assert.True(t, row.FeesPaid.Equal(dec("100")))
	assert.True(t, row.InterestPaid.Equal(dec("1000")))
	assert.True(t, row.PrincipalPaid.Equal(dec("7900")))
	assert.True(t, row.OutstandingPrincipal().Equal(dec("100")),
		"100 of principal should remain outstanding, got %s", row.OutstandingPrincipal())
	assert.Equal(t, valueobject.InstallmentStatusPartial, row.Status)

	// The engine works on a copy.
	assert.True(t, rows[0].FeesPaid.IsZero())
}

func TestAllocateStrictOrderAcrossInstallments(t *testing.T) {
	engine := service.NewAllocationEngine()

	t.Run("earlier due date is served first", func(t *testing.T) {
		// Business-day adjustment can roll installment 2's due date before
		// installment 1's.
		rows := []model.Installment{
			dueRow(1, date(2024, time.March, 5), "0", "50", "950"),
			dueRow(2, date(2024, time.March, 3), "0", "50", "950"),
		}

		updated, allocations, remainder := engine.Allocate(dec("1200"), rows)

		require.Len(t, allocations, 2)
		assert.Equal(t, 2, allocations[0].InstallmentNumber,
			"the earlier due date is served first even when numbers disagree")
		assert.Equal(t, 1, allocations[1].InstallmentNumber)

		assert.Equal(t, valueobject.InstallmentStatusPaid, updated[1].Status)
		assert.Equal(t, valueobject.InstallmentStatusPartial, updated[0].Status)
		assert.True(t, updated[0].InterestPaid.Equal(dec("50")))
		assert.True(t, updated[0].PrincipalPaid.Equal(dec("150")))
		assert.True(t, remainder.IsZero())
	})

	t.Run("number breaks due-date ties", func(t *testing.T) {
		rows := []model.Installment{
			dueRow(2, date(2024, time.March, 3), "0", "50", "950"),
			dueRow(1, date(2024, time.March, 3), "0", "50", "950"),
		}

		_, allocations, _ := engine.Allocate(dec("400"), rows)

		require.Len(t, allocations, 1)
		assert.Equal(t, 1, allocations[0].InstallmentNumber)
	})
}

func TestAllocateSkipsSettledAndReturnsRemainder(t *testing.T) {
	engine := service.NewAllocationEngine()

	settled := dueRow(1, date(2024, time.February, 1), "0", "10", "90")
	settled.InterestPaid = dec("10")
	settled.PrincipalPaid = dec("90")
	settled = settled.RefreshStatus()
	open := dueRow(2, date(2024, time.March, 1), "0", "10", "90")

	updated, allocations, remainder := engine.Allocate(dec("500"), []model.Installment{settled, open})

	require.Len(t, allocations, 1)
	assert.Equal(t, 2, allocations[0].InstallmentNumber, "settled installments are skipped")
	assert.Equal(t, valueobject.InstallmentStatusPaid, updated[1].Status)
	assert.True(t, remainder.Equal(dec("400")),
		"whatever cannot be applied is returned, got %s", remainder)
}

func TestAllocateNonPositiveAmount(t *testing.T) {
	engine := service.NewAllocationEngine()
	rows := []model.Installment{
		dueRow(1, date(2024, time.March, 1), "0", "50", "950"),
	}

	updated, allocations, remainder := engine.Allocate(decimal.Zero, rows)

	assert.Empty(t, allocations)
	assert.True(t, remainder.IsZero())
	assert.True(t, updated[0].AmountPaid().IsZero())
}

func TestAllocatePartialStopsAtComponentCaps(t *testing.T) {
	engine := service.NewAllocationEngine()
	rows := []model.Installment{
		dueRow(1, date(2024, time.March, 1), "100", "50", "500"),
	}

	updated, allocations, remainder := engine.Allocate(dec("60"), rows)

	require.Len(t, allocations, 1)
	assert.True(t, allocations[0].Fees.Equal(dec("60")),
		"a short payment stays within the first unpaid component, got %s", allocations[0].Fees)
	assert.True(t, allocations[0].Interest.IsZero())
	assert.True(t, allocations[0].Principal.IsZero())
	assert.True(t, remainder.IsZero())
	assert.Equal(t, valueobject.InstallmentStatusPartial, updated[0].Status)
}

func TestAllocateConservesMoney(t *testing.T) {
	engine := service.NewAllocationEngine()
	rows := []model.Installment{
		dueRow(1, date(2024, time.February, 1), "100", "1000", "8000"),
		dueRow(2, date(2024, time.March, 1), "0", "900", "8100"),
		dueRow(3, date(2024, time.April, 1), "0", "800", "8200"),
	}

	for _, amount := range []string{"0.01", "59.99", "100", "1100.50", "9100", "18100", "27100", "50000"} {
		t.Run("payment of "+amount, func(t *testing.T) {
			updated, allocations, remainder := engine.Allocate(dec(amount), rows)

			applied := decimal.Zero
			for _, a := range allocations {
				applied = applied.Add(a.Fees).Add(a.Interest).Add(a.Principal)
			}
			assert.True(t, applied.Add(remainder).Equal(dec(amount)),
				"applied %s plus remainder %s must equal the payment", applied, remainder)

			for i := range updated {
				assert.False(t, updated[i].FeesPaid.GreaterThan(updated[i].FeesDue))
				assert.False(t, updated[i].InterestPaid.GreaterThan(updated[i].InterestDue))
				assert.False(t, updated[i].PrincipalPaid.GreaterThan(updated[i].PrincipalDue))
			}
		})
	}
}

func TestReversePaymentRestoresSchedule(t *testing.T) {
	engine := service.NewAllocationEngine()
	now := time.Now().UTC()
	rows := []model.Installment{
		dueRow(1, date(2024, time.February, 1), "100", "1000", "8000"),
		dueRow(2, date(2024, time.March, 1), "0", "900", "8100"),
	}

	updated, allocations, remainder := engine.Allocate(dec("9500"), rows)
	require.True(t, remainder.IsZero())

	payment, err := model.NewPayment("loan-001", dec("9500"), "INR", "utr-42", now, now)
	require.NoError(t, err)
	payment = payment.WithAllocations(allocations, remainder, now)

	restored, err := engine.Reverse(payment, updated)
	require.NoError(t, err)

	for i := range restored {
		assert.True(t, restored[i].AmountPaid().IsZero(),
			"installment %d should hold nothing after the reversal", restored[i].Number)
		assert.Equal(t, valueobject.InstallmentStatusPending, restored[i].Status)
		assert.True(t, restored[i].TotalDue.Equal(rows[i].TotalDue))
	}
}

func TestReverseDetectsCorruptedSchedules(t *testing.T) {
	engine := service.NewAllocationEngine()
	now := time.Now().UTC()

	rows := []model.Installment{
		dueRow(1, date(2024, time.February, 1), "0", "1000", "8000"),
	}
	updated, allocations, remainder := engine.Allocate(dec("9000"), rows)

	payment, err := model.NewPayment("loan-001", dec("9000"), "INR", "utr-43", now, now)
	require.NoError(t, err)
	payment = payment.WithAllocations(allocations, remainder, now)

	t.Run("installment gone", func(t *testing.T) {
		_, err := engine.Reverse(payment, []model.Installment{
			dueRow(7, date(2024, time.February, 1), "0", "1000", "8000"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no longer exists")
	})

	t.Run("installment holds less than allocated", func(t *testing.T) {
		short := model.CloneInstallments(updated)
		short[0].PrincipalPaid = dec("100")

		_, err := engine.Reverse(payment, short)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "holds less than the payment allocated")
	})
}
