package port

import (
	"context"
	"errors"
	"time"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/event"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/businessday"
)

// Sentinel errors shared by all repository implementations. Adapters
// translate driver-level failures into these so the application and
// presentation layers never see a driver error.
var (
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict is returned when an optimistic-locking guard
	// rejects a save because another writer got there first.
	ErrVersionConflict = errors.New("optimistic locking conflict")
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanRepository persists and retrieves loans with their schedules.
type LoanRepository interface {
	// Save persists the loan and its installments atomically, guarded by
	// the loan's version.
	Save(ctx context.Context, loan model.Loan) error
	// SaveWithPayment persists a loan state change together with the
	// payment that caused it, in one transaction.
	SaveWithPayment(ctx context.Context, loan model.Loan, payment model.Payment) error
	FindByID(ctx context.Context, id string) (model.Loan, error)
	FindByBorrowerID(ctx context.Context, borrowerID string) ([]model.Loan, error)
	// ActiveLoanIDs lists the IDs of all open loans, for batch valuation.
	ActiveLoanIDs(ctx context.Context) ([]string, error)
}

// PaymentRepository persists and retrieves payments with their allocations.
type PaymentRepository interface {
	Save(ctx context.Context, payment model.Payment) error
	FindByID(ctx context.Context, id string) (model.Payment, error)
	// FindByReference looks a payment up by its caller-supplied
	// idempotency reference.
	FindByReference(ctx context.Context, loanID, reference string) (model.Payment, error)
	FindByLoanID(ctx context.Context, loanID string) ([]model.Payment, error)
}

// BenchmarkRateRepository stores published fixings of reference rates.
type BenchmarkRateRepository interface {
	Save(ctx context.Context, rate model.BenchmarkRate) error
	// Latest returns the fixing with the greatest effective date at or
	// before asOf, or ErrNotFound when no fixing qualifies.
	Latest(ctx context.Context, benchmark string, asOf time.Time) (model.BenchmarkRate, error)
}

// SnapshotRepository stores dated delinquency snapshots. Saving a snapshot
// for a (loan, date) pair that already exists is a no-op; the stored row
// wins.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot model.DelinquencySnapshot) error
	FindByLoanAndDate(ctx context.Context, loanID string, asOf time.Time) (model.DelinquencySnapshot, error)
	FindByLoanID(ctx context.Context, loanID string) ([]model.DelinquencySnapshot, error)
}

// ---------------------------------------------------------------------------
// Calendar port
// ---------------------------------------------------------------------------

// CalendarSource resolves holiday calendars by identifier. An empty
// identifier resolves to the weekend-only default calendar.
type CalendarSource interface {
	Calendar(ctx context.Context, id string) (*businessday.Calendar, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
