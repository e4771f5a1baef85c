package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// DelinquencyClassifier – days past due, buckets, overdue totals
// ---------------------------------------------------------------------------

// DelinquencyAssessment is a loan's arrears position measured as of a date.
// The bucket reflects the measured days past due only; NPA stickiness lives
// on the loan itself.
type DelinquencyAssessment struct {
	DaysPastDue         int
	Bucket              valueobject.DelinquencyBucket
	PrincipalOverdue    decimal.Decimal
	InterestOverdue     decimal.Decimal
	FeesOverdue         decimal.Decimal
	OldestUnpaidDueDate time.Time
}

// DelinquencyClassifier measures arrears from a schedule. Classification of
// the loan (the NPA state machine) is the aggregate's transition; this
// service only measures.
type DelinquencyClassifier struct{}

// NewDelinquencyClassifier creates a delinquency classifier.
func NewDelinquencyClassifier() *DelinquencyClassifier {
	return &DelinquencyClassifier{}
}

// Assess measures days past due, bucket and overdue component totals as of
// the given date. Days past due is the age in days of the oldest
// installment due on or before asOf with a positive remainder; zero when
// nothing qualifies.
func (c *DelinquencyClassifier) Assess(installments []model.Installment, asOf time.Time) DelinquencyAssessment {
	assessment := DelinquencyAssessment{
		PrincipalOverdue: decimal.Zero,
		InterestOverdue:  decimal.Zero,
		FeesOverdue:      decimal.Zero,
	}

	var oldest time.Time
	for _, row := range installments {
		if !row.IsOverdue(asOf) {
			continue
		}
		if oldest.IsZero() || row.DueDate.Before(oldest) {
			oldest = row.DueDate
		}
		assessment.PrincipalOverdue = assessment.PrincipalOverdue.Add(row.OutstandingPrincipal())
		assessment.InterestOverdue = assessment.InterestOverdue.Add(row.OutstandingInterest())
		assessment.FeesOverdue = assessment.FeesOverdue.Add(row.OutstandingFees())
	}

	if !oldest.IsZero() {
		assessment.OldestUnpaidDueDate = oldest
		assessment.DaysPastDue = daysBetween(oldest, asOf)
	}
	assessment.Bucket = valueobject.BucketForDPD(assessment.DaysPastDue)
	return assessment
}

// DaysPastDue is a shorthand for Assess(...).DaysPastDue.
func (c *DelinquencyClassifier) DaysPastDue(installments []model.Installment, asOf time.Time) int {
	return c.Assess(installments, asOf).DaysPastDue
}

// daysBetween counts whole calendar days from a to b in UTC.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
