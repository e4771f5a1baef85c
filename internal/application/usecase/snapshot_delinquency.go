package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/dto"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/event"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/service"
)

// SnapshotDelinquencyUseCase measures a loan's arrears as of a date,
// runs the NPA transition, and records a dated snapshot. Snapshots are
// idempotent per (loan, date): a rerun returns the stored row unchanged.
type SnapshotDelinquencyUseCase struct {
	loans      port.LoanRepository
	snapshots  port.SnapshotRepository
	classifier *service.DelinquencyClassifier
	publisher  port.EventPublisher
}

// NewSnapshotDelinquencyUseCase wires dependencies.
func NewSnapshotDelinquencyUseCase(
	loans port.LoanRepository,
	snapshots port.SnapshotRepository,
	classifier *service.DelinquencyClassifier,
	publisher port.EventPublisher,
) *SnapshotDelinquencyUseCase {
	return &SnapshotDelinquencyUseCase{
		loans:      loans,
		snapshots:  snapshots,
		classifier: classifier,
		publisher:  publisher,
	}
}

// Execute takes a delinquency snapshot of a loan.
func (uc *SnapshotDelinquencyUseCase) Execute(
	ctx context.Context,
	req dto.SnapshotDelinquencyRequest,
) (dto.DelinquencySnapshotResponse, error) {
	now := time.Now().UTC()
	asOf := req.AsOfDate
	if asOf.IsZero() {
		asOf = now
	}

	// 1. Load the loan and measure its arrears.
	loan, err := uc.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.DelinquencySnapshotResponse{}, fmt.Errorf("find loan: %w", err)
	}
	assessment := uc.classifier.Assess(loan.Installments(), asOf)

	// 2. Run the NPA transition before the snapshot so the snapshot
	// carries the post-transition classification.
	loan = loan.Reclassify(assessment.DaysPastDue, asOf, now)

	// 3. Build and store the snapshot; a (loan, date) duplicate is a
	// no-op and the stored row wins.
	snapshot, err := model.NewDelinquencySnapshot(
		loan.ID(), asOf,
		assessment.DaysPastDue, assessment.Bucket,
		assessment.PrincipalOverdue, assessment.InterestOverdue, assessment.FeesOverdue,
		assessment.OldestUnpaidDueDate, loan.IsNPA(), now,
	)
	if err != nil {
		return dto.DelinquencySnapshotResponse{}, fmt.Errorf("create snapshot: %w", err)
	}
	if err := uc.snapshots.Save(ctx, snapshot); err != nil {
		return dto.DelinquencySnapshotResponse{}, fmt.Errorf("save snapshot: %w", err)
	}
	stored, err := uc.snapshots.FindByLoanAndDate(ctx, loan.ID(), asOf)
	if err != nil {
		return dto.DelinquencySnapshotResponse{}, fmt.Errorf("find snapshot: %w", err)
	}
	alreadyExisted := stored.ID() != snapshot.ID()

	// 4. Persist the reclassified loan.
	if err := uc.loans.Save(ctx, loan); err != nil {
		return dto.DelinquencySnapshotResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 5. Publish the loan's transition events, plus the snapshot event
	// when this run actually took the snapshot.
	domainEvents := loan.DomainEvents()
	if !alreadyExisted {
		domainEvents = append(domainEvents, event.NewDelinquencySnapshotTaken(
			loan.ID(), stored.AsOfDate(), stored.DaysPastDue(),
			stored.Bucket().String(), stored.IsNPA(),
		))
	}
	if err := uc.publisher.Publish(ctx, domainEvents...); err != nil {
		return dto.DelinquencySnapshotResponse{}, fmt.Errorf("publish events: %w", err)
	}

	resp := toSnapshotResponse(stored)
	resp.AlreadyExisted = alreadyExisted
	return resp, nil
}

func toSnapshotResponse(snapshot model.DelinquencySnapshot) dto.DelinquencySnapshotResponse {
	return dto.DelinquencySnapshotResponse{
		ID:                  snapshot.ID(),
		LoanID:              snapshot.LoanID(),
		AsOfDate:            snapshot.AsOfDate(),
		DaysPastDue:         snapshot.DaysPastDue(),
		Bucket:              snapshot.Bucket().String(),
		PrincipalOverdue:    snapshot.PrincipalOverdue(),
		InterestOverdue:     snapshot.InterestOverdue(),
		FeesOverdue:         snapshot.FeesOverdue(),
		OldestUnpaidDueDate: optionalTime(snapshot.OldestUnpaidDueDate()),
		IsNPA:               snapshot.IsNPA(),
	}
}
