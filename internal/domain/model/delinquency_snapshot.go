package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
)

// DelinquencySnapshot is a dated, point-in-time record of a loan's arrears
// position. Snapshots are idempotent per (loan, as-of date): taking the same
// snapshot twice returns the stored row unchanged.
type DelinquencySnapshot struct {
	id                  string
	loanID              string
	asOfDate            time.Time
	daysPastDue         int
	bucket              valueobject.DelinquencyBucket
	principalOverdue    decimal.Decimal
	interestOverdue     decimal.Decimal
	feesOverdue         decimal.Decimal
	oldestUnpaidDueDate time.Time
	isNPA               bool
	createdAt           time.Time
}

// NewDelinquencySnapshot records a loan's arrears position as of a date.
// oldestUnpaidDueDate is zero when nothing is overdue.
func NewDelinquencySnapshot(
	loanID string,
	asOfDate time.Time,
	daysPastDue int,
	bucket valueobject.DelinquencyBucket,
	principalOverdue, interestOverdue, feesOverdue decimal.Decimal,
	oldestUnpaidDueDate time.Time,
	isNPA bool,
	now time.Time,
) (DelinquencySnapshot, error) {
	if loanID == "" {
		return DelinquencySnapshot{}, valueobject.NewConfigurationError("loan_id", "is required")
	}
	if asOfDate.IsZero() {
		return DelinquencySnapshot{}, valueobject.NewConfigurationError("as_of_date", "is required")
	}
	if bucket.IsZero() {
		return DelinquencySnapshot{}, valueobject.NewConfigurationError("bucket", "is required")
	}
	return DelinquencySnapshot{
		id:                  uuid.New().String(),
		loanID:              loanID,
		asOfDate:            asOfDate,
		daysPastDue:         daysPastDue,
		bucket:              bucket,
		principalOverdue:    principalOverdue,
		interestOverdue:     interestOverdue,
		feesOverdue:         feesOverdue,
		oldestUnpaidDueDate: oldestUnpaidDueDate,
		isNPA:               isNPA,
		createdAt:           now,
	}, nil
}

// ReconstructDelinquencySnapshot rebuilds a snapshot from persistence.
func ReconstructDelinquencySnapshot(
	id, loanID string,
	asOfDate time.Time,
	daysPastDue int,
	bucket valueobject.DelinquencyBucket,
	principalOverdue, interestOverdue, feesOverdue decimal.Decimal,
	oldestUnpaidDueDate time.Time,
	isNPA bool,
	createdAt time.Time,
) DelinquencySnapshot {
	return DelinquencySnapshot{
		id:                  id,
		loanID:              loanID,
		asOfDate:            asOfDate,
		daysPastDue:         daysPastDue,
		bucket:              bucket,
		principalOverdue:    principalOverdue,
		interestOverdue:     interestOverdue,
		feesOverdue:         feesOverdue,
		oldestUnpaidDueDate: oldestUnpaidDueDate,
		isNPA:               isNPA,
		createdAt:           createdAt,
	}
}

func (s DelinquencySnapshot) ID() string                            { return s.id }
func (s DelinquencySnapshot) LoanID() string                        { return s.loanID }
func (s DelinquencySnapshot) AsOfDate() time.Time                   { return s.asOfDate }
func (s DelinquencySnapshot) DaysPastDue() int                      { return s.daysPastDue }
func (s DelinquencySnapshot) Bucket() valueobject.DelinquencyBucket { return s.bucket }
func (s DelinquencySnapshot) PrincipalOverdue() decimal.Decimal     { return s.principalOverdue }
func (s DelinquencySnapshot) InterestOverdue() decimal.Decimal      { return s.interestOverdue }
func (s DelinquencySnapshot) FeesOverdue() decimal.Decimal          { return s.feesOverdue }
func (s DelinquencySnapshot) OldestUnpaidDueDate() time.Time        { return s.oldestUnpaidDueDate }
func (s DelinquencySnapshot) IsNPA() bool                           { return s.isNPA }
func (s DelinquencySnapshot) CreatedAt() time.Time                  { return s.createdAt }
