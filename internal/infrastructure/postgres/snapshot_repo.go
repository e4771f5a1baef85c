package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/model"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
)

// SnapshotRepo implements port.SnapshotRepository.
type SnapshotRepo struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepo creates a new PostgreSQL-backed snapshot store.
func NewSnapshotRepo(pool *pgxpool.Pool) *SnapshotRepo {
	return &SnapshotRepo{pool: pool}
}

// Save inserts the snapshot unless one already exists for the loan and
// as-of date; the stored row wins and the insert becomes a no-op.
func (r *SnapshotRepo) Save(ctx context.Context, snapshot model.DelinquencySnapshot) error {
	query := `
		INSERT INTO delinquency_snapshots (
			id, loan_id, as_of_date, days_past_due, bucket,
			principal_overdue, interest_overdue, fees_overdue,
			oldest_unpaid_due_date, is_npa, created_at
		) VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (loan_id, as_of_date) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		snapshot.ID(), snapshot.LoanID(), snapshot.AsOfDate(),
		snapshot.DaysPastDue(), snapshot.Bucket().String(),
		snapshot.PrincipalOverdue(), snapshot.InterestOverdue(), snapshot.FeesOverdue(),
		nullTime(snapshot.OldestUnpaidDueDate()), snapshot.IsNPA(), snapshot.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save delinquency snapshot: %w", err)
	}
	return nil
}

// FindByLoanAndDate retrieves the snapshot taken for a loan on a date.
func (r *SnapshotRepo) FindByLoanAndDate(ctx context.Context, loanID string, asOf time.Time) (model.DelinquencySnapshot, error) {
	return scanSnapshot(r.pool.QueryRow(ctx,
		selectSnapshots+` WHERE loan_id = $1 AND as_of_date = $2::date`, loanID, asOf))
}

// FindByLoanID retrieves all snapshots of a loan, newest first.
func (r *SnapshotRepo) FindByLoanID(ctx context.Context, loanID string) ([]model.DelinquencySnapshot, error) {
	rows, err := r.pool.Query(ctx, selectSnapshots+` WHERE loan_id = $1 ORDER BY as_of_date DESC`, loanID)
	if err != nil {
		return nil, fmt.Errorf("query delinquency snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []model.DelinquencySnapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

const selectSnapshots = `
	SELECT id, loan_id, as_of_date, days_past_due, bucket,
	       principal_overdue, interest_overdue, fees_overdue,
	       oldest_unpaid_due_date, is_npa, created_at
	FROM delinquency_snapshots
`

func scanSnapshot(s scannable) (model.DelinquencySnapshot, error) {
	var (
		id, loanID          string
		asOfDate            time.Time
		daysPastDue         int
		bucketStr           string
		principalOverdue    decimal.Decimal
		interestOverdue     decimal.Decimal
		feesOverdue         decimal.Decimal
		oldestUnpaidDueDate *time.Time
		isNPA               bool
		createdAt           time.Time
	)
	err := s.Scan(
		&id, &loanID, &asOfDate, &daysPastDue, &bucketStr,
		&principalOverdue, &interestOverdue, &feesOverdue,
		&oldestUnpaidDueDate, &isNPA, &createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.DelinquencySnapshot{}, port.ErrNotFound
	}
	if err != nil {
		return model.DelinquencySnapshot{}, fmt.Errorf("scan delinquency snapshot: %w", err)
	}

	bucket, err := valueobject.NewDelinquencyBucket(bucketStr)
	if err != nil {
		return model.DelinquencySnapshot{}, fmt.Errorf("parse bucket: %w", err)
	}

	return model.ReconstructDelinquencySnapshot(
		id, loanID, asOfDate, daysPastDue, bucket,
		principalOverdue, interestOverdue, feesOverdue,
		timeOrZero(oldestUnpaidDueDate), isNPA, createdAt,
	), nil
}
