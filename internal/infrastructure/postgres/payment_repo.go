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
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/money"
	pkgpostgres "github.com/harshitrathi14/LOS-LMS-sub001/pkg/postgres"
)

// PaymentRepo implements port.PaymentRepository.
type PaymentRepo struct {
	pool *pgxpool.Pool
}

// NewPaymentRepo creates a new PostgreSQL-backed payment repository.
func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Save persists a payment and its allocations atomically.
func (r *PaymentRepo) Save(ctx context.Context, payment model.Payment) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return savePaymentTx(ctx, tx, payment)
	})
}

// FindByID retrieves a payment with its allocations.
func (r *PaymentRepo) FindByID(ctx context.Context, id string) (model.Payment, error) {
	rec, err := scanPaymentRecord(r.pool.QueryRow(ctx, selectPayments+` WHERE id = $1`, id))
	if err != nil {
		return model.Payment{}, err
	}
	return r.attachAllocations(ctx, rec)
}

// FindByReference looks a payment up by its caller-supplied idempotency
// reference.
func (r *PaymentRepo) FindByReference(ctx context.Context, loanID, reference string) (model.Payment, error) {
	rec, err := scanPaymentRecord(r.pool.QueryRow(ctx,
		selectPayments+` WHERE loan_id = $1 AND reference = $2`, loanID, reference))
	if err != nil {
		return model.Payment{}, err
	}
	return r.attachAllocations(ctx, rec)
}

// FindByLoanID retrieves all payments against a loan, oldest first.
func (r *PaymentRepo) FindByLoanID(ctx context.Context, loanID string) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx, selectPayments+` WHERE loan_id = $1 ORDER BY received_at`, loanID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var records []paymentRecord
	for rows.Next() {
		rec, err := scanPaymentRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}

	payments := make([]model.Payment, 0, len(records))
	for _, rec := range records {
		payment, err := r.attachAllocations(ctx, rec)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

// ---------------------------------------------------------------------------
// persistence
// ---------------------------------------------------------------------------

// savePaymentTx upserts the payments row and inserts its allocations.
// Allocations never change after booking; a reversal flips the flag and
// replays them, so conflicting allocation rows are left untouched.
func savePaymentTx(ctx context.Context, q pkgpostgres.Querier, payment model.Payment) error {
	query := `
		INSERT INTO payments (
			id, loan_id, amount, currency, received_at, reference,
			unallocated, reversed, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			unallocated = EXCLUDED.unallocated,
			reversed    = EXCLUDED.reversed,
			updated_at  = EXCLUDED.updated_at
	`
	_, err := q.Exec(ctx, query,
		payment.ID(), payment.LoanID(), payment.Amount(), payment.Currency().Code(),
		payment.ReceivedAt(), payment.Reference(),
		payment.Unallocated(), payment.IsReversed(), payment.CreatedAt(), payment.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}

	allocQuery := `
		INSERT INTO payment_allocations (payment_id, installment_number, fees, interest, principal)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (payment_id, installment_number) DO NOTHING
	`
	for _, alloc := range payment.Allocations() {
		_, err := q.Exec(ctx, allocQuery,
			payment.ID(), alloc.InstallmentNumber, alloc.Fees, alloc.Interest, alloc.Principal,
		)
		if err != nil {
			return fmt.Errorf("save allocation %d: %w", alloc.InstallmentNumber, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

const selectPayments = `
	SELECT id, loan_id, amount, currency, received_at, reference,
	       unallocated, reversed, created_at, updated_at
	FROM payments
`

type paymentRecord struct {
	id          string
	loanID      string
	amount      decimal.Decimal
	currency    money.Currency
	receivedAt  time.Time
	reference   string
	unallocated decimal.Decimal
	reversed    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func scanPaymentRecord(s scannable) (paymentRecord, error) {
	var (
		rec          paymentRecord
		currencyCode string
	)
	err := s.Scan(
		&rec.id, &rec.loanID, &rec.amount, &currencyCode, &rec.receivedAt, &rec.reference,
		&rec.unallocated, &rec.reversed, &rec.createdAt, &rec.updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return paymentRecord{}, port.ErrNotFound
	}
	if err != nil {
		return paymentRecord{}, fmt.Errorf("scan payment: %w", err)
	}
	rec.currency, err = money.NewCurrency(currencyCode)
	if err != nil {
		return paymentRecord{}, fmt.Errorf("parse payment currency: %w", err)
	}
	return rec, nil
}

func (r *PaymentRepo) attachAllocations(ctx context.Context, rec paymentRecord) (model.Payment, error) {
	allocations, err := r.loadAllocations(ctx, rec.id)
	if err != nil {
		return model.Payment{}, err
	}
	return model.ReconstructPayment(
		rec.id, rec.loanID, rec.amount, rec.currency,
		rec.receivedAt, rec.reference,
		allocations, rec.unallocated, rec.reversed,
		rec.createdAt, rec.updatedAt,
	), nil
}

func (r *PaymentRepo) loadAllocations(ctx context.Context, paymentID string) ([]model.Allocation, error) {
	query := `
		SELECT installment_number, fees, interest, principal
		FROM payment_allocations
		WHERE payment_id = $1
		ORDER BY installment_number
	`
	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("query allocations: %w", err)
	}
	defer rows.Close()

	var allocations []model.Allocation
	for rows.Next() {
		var alloc model.Allocation
		if err := rows.Scan(&alloc.InstallmentNumber, &alloc.Fees, &alloc.Interest, &alloc.Principal); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		allocations = append(allocations, alloc)
	}
	return allocations, rows.Err()
}
