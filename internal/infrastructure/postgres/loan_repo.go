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
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/businessday"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/daycount"
	pkgpostgres "github.com/harshitrathi14/LOS-LMS-sub001/pkg/postgres"
)

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// Save persists a loan and its schedule atomically, guarded by the loan's
// version.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return saveLoanTx(ctx, tx, loan)
	})
}

// SaveWithPayment persists a loan state change together with the payment
// that caused it, in one transaction.
func (r *LoanRepo) SaveWithPayment(ctx context.Context, loan model.Loan, payment model.Payment) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := saveLoanTx(ctx, tx, loan); err != nil {
			return err
		}
		return savePaymentTx(ctx, tx, payment)
	})
}

// FindByID retrieves a loan and its schedule by ID.
func (r *LoanRepo) FindByID(ctx context.Context, id string) (model.Loan, error) {
	rec, err := scanLoanRecord(r.pool.QueryRow(ctx, selectLoans+` WHERE id = $1`, id))
	if err != nil {
		return model.Loan{}, err
	}
	return r.attachSchedule(ctx, rec)
}

// FindByBorrowerID retrieves all loans of a borrower, newest first.
func (r *LoanRepo) FindByBorrowerID(ctx context.Context, borrowerID string) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx, selectLoans+` WHERE borrower_id = $1 ORDER BY created_at DESC`, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var records []loanRecord
	for rows.Next() {
		rec, err := scanLoanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}

	loans := make([]model.Loan, 0, len(records))
	for _, rec := range records {
		loan, err := r.attachSchedule(ctx, rec)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

// ActiveLoanIDs lists the IDs of all open loans, for batch valuation.
func (r *LoanRepo) ActiveLoanIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM loans WHERE status = $1 ORDER BY id`,
		valueobject.LoanStatusActive.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query active loans: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan loan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ---------------------------------------------------------------------------
// persistence
// ---------------------------------------------------------------------------

// saveLoanTx upserts the loans row and every schedule row. The version guard
// turns a lost optimistic lock into zero affected rows.
func saveLoanTx(ctx context.Context, q pkgpostgres.Querier, loan model.Loan) error {
	terms := loan.Terms()
	variant := terms.Variant()
	moratorium := terms.Moratorium()

	benchmark := ""
	spread := decimal.Zero
	var rateFloor, rateCap *decimal.Decimal
	resetFrequency := ""
	var firstResetDate *time.Time
	if floating, ok := terms.Floating(); ok {
		benchmark = floating.Benchmark()
		spread = floating.Spread()
		if v, ok := floating.Floor(); ok {
			rateFloor = &v
		}
		if v, ok := floating.Cap(); ok {
			rateCap = &v
		}
		resetFrequency = floating.ResetFrequency().String()
		firstResetDate = nullTime(floating.FirstResetDate())
	}

	loanQuery := `
		INSERT INTO loans (
			id, borrower_id,
			principal, currency, annual_rate, rate_basis, day_count, repayment_frequency,
			tenure_months, start_date, calendar_id, adjustment,
			schedule_kind, step_percent, step_every_months, balloon_percent, balloon_amount,
			moratorium_months, moratorium_kind, interest_treatment,
			benchmark, spread, rate_floor, rate_cap, reset_frequency, first_reset_date,
			current_rate, next_reset_date, days_past_due, is_npa, npa_date,
			status, version, created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
			$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35
		)
		ON CONFLICT (id) DO UPDATE SET
			current_rate    = EXCLUDED.current_rate,
			next_reset_date = EXCLUDED.next_reset_date,
			days_past_due   = EXCLUDED.days_past_due,
			is_npa          = EXCLUDED.is_npa,
			npa_date        = EXCLUDED.npa_date,
			status          = EXCLUDED.status,
			version         = loans.version + 1,
			updated_at      = EXCLUDED.updated_at
		WHERE loans.version = $33
	`
	tag, err := q.Exec(ctx, loanQuery,
		loan.ID(), loan.BorrowerID(),
		terms.Principal(), terms.Currency().Code(), terms.AnnualRate(),
		terms.RateBasis().String(), terms.DayCount().String(), terms.Frequency().String(),
		terms.TenureMonths(), terms.StartDate(), terms.CalendarID(), terms.Adjustment().String(),
		variant.Kind().String(), variant.StepPercent(), variant.StepEveryMonths(),
		variant.BalloonPercent(), variant.BalloonAmount(),
		moratorium.Months(), moratorium.Kind().String(), moratorium.Treatment().String(),
		benchmark, spread, rateFloor, rateCap, resetFrequency, firstResetDate,
		loan.CurrentRate(), nullTime(loan.NextResetDate()), loan.DaysPastDue(),
		loan.IsNPA(), nullTime(loan.NPADate()),
		loan.Status().String(), loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrVersionConflict
	}

	installmentQuery := `
		INSERT INTO loan_installments (
			loan_id, number, due_date, period_start, period_end,
			opening_balance, principal_due, interest_due, fees_due, total_due,
			closing_balance, principal_paid, interest_paid, fees_paid,
			is_moratorium, step_number, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (loan_id, number) DO UPDATE SET
			due_date        = EXCLUDED.due_date,
			period_start    = EXCLUDED.period_start,
			period_end      = EXCLUDED.period_end,
			opening_balance = EXCLUDED.opening_balance,
			principal_due   = EXCLUDED.principal_due,
			interest_due    = EXCLUDED.interest_due,
			fees_due        = EXCLUDED.fees_due,
			total_due       = EXCLUDED.total_due,
			closing_balance = EXCLUDED.closing_balance,
			principal_paid  = EXCLUDED.principal_paid,
			interest_paid   = EXCLUDED.interest_paid,
			fees_paid       = EXCLUDED.fees_paid,
			is_moratorium   = EXCLUDED.is_moratorium,
			step_number     = EXCLUDED.step_number,
			status          = EXCLUDED.status
	`
	for _, row := range loan.Installments() {
		_, err := q.Exec(ctx, installmentQuery,
			loan.ID(), row.Number, row.DueDate, row.PeriodStart, row.PeriodEnd,
			row.OpeningBalance, row.PrincipalDue, row.InterestDue, row.FeesDue, row.TotalDue,
			row.ClosingBalance, row.PrincipalPaid, row.InterestPaid, row.FeesPaid,
			row.IsMoratorium, row.StepNumber, row.Status.String(),
		)
		if err != nil {
			return fmt.Errorf("save installment %d: %w", row.Number, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

const selectLoans = `
	SELECT id, borrower_id,
	       principal, currency, annual_rate, rate_basis, day_count, repayment_frequency,
	       tenure_months, start_date, calendar_id, adjustment,
	       schedule_kind, step_percent, step_every_months, balloon_percent, balloon_amount,
	       moratorium_months, moratorium_kind, interest_treatment,
	       benchmark, spread, rate_floor, rate_cap, reset_frequency, first_reset_date,
	       current_rate, next_reset_date, days_past_due, is_npa, npa_date,
	       status, version, created_at, updated_at
	FROM loans
`

// loanRecord is a loans table row before the schedule is attached.
type loanRecord struct {
	id            string
	borrowerID    string
	terms         model.LoanTerms
	currentRate   decimal.Decimal
	nextResetDate time.Time
	daysPastDue   int
	isNPA         bool
	npaDate       time.Time
	status        valueobject.LoanStatus
	version       int
	createdAt     time.Time
	updatedAt     time.Time
}

func scanLoanRecord(s scannable) (loanRecord, error) {
	var (
		id, borrowerID                          string
		principal, annualRate                   decimal.Decimal
		currencyCode                            string
		rateBasisStr, dayCountStr, frequencyStr string
		tenureMonths                            int
		startDate                               time.Time
		calendarID, adjustmentStr               string
		scheduleKindStr                         string
		stepPercent                             decimal.Decimal
		stepEveryMonths                         int
		balloonPercent, balloonAmount           decimal.Decimal
		moratoriumMonths                        int
		moratoriumKindStr, treatmentStr         string
		benchmark                               string
		spread                                  decimal.Decimal
		rateFloor, rateCap                      *decimal.Decimal
		resetFrequencyStr                       string
		firstResetDate                          *time.Time
		currentRate                             decimal.Decimal
		nextResetDate                           *time.Time
		daysPastDue                             int
		isNPA                                   bool
		npaDate                                 *time.Time
		statusStr                               string
		version                                 int
		createdAt, updatedAt                    time.Time
	)

	err := s.Scan(
		&id, &borrowerID,
		&principal, &currencyCode, &annualRate, &rateBasisStr, &dayCountStr, &frequencyStr,
		&tenureMonths, &startDate, &calendarID, &adjustmentStr,
		&scheduleKindStr, &stepPercent, &stepEveryMonths, &balloonPercent, &balloonAmount,
		&moratoriumMonths, &moratoriumKindStr, &treatmentStr,
		&benchmark, &spread, &rateFloor, &rateCap, &resetFrequencyStr, &firstResetDate,
		&currentRate, &nextResetDate, &daysPastDue, &isNPA, &npaDate,
		&statusStr, &version, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return loanRecord{}, port.ErrNotFound
	}
	if err != nil {
		return loanRecord{}, fmt.Errorf("scan loan: %w", err)
	}

	terms, err := termsFromRow(
		principal, currencyCode, annualRate, rateBasisStr, dayCountStr, frequencyStr,
		tenureMonths, startDate, calendarID, adjustmentStr,
		scheduleKindStr, stepPercent, stepEveryMonths, balloonPercent, balloonAmount,
		moratoriumMonths, moratoriumKindStr, treatmentStr,
		benchmark, spread, rateFloor, rateCap, resetFrequencyStr, timeOrZero(firstResetDate),
	)
	if err != nil {
		return loanRecord{}, fmt.Errorf("rebuild loan %s: %w", id, err)
	}

	status, err := valueobject.NewLoanStatus(statusStr)
	if err != nil {
		return loanRecord{}, fmt.Errorf("parse loan status: %w", err)
	}

	return loanRecord{
		id:            id,
		borrowerID:    borrowerID,
		terms:         terms,
		currentRate:   currentRate,
		nextResetDate: timeOrZero(nextResetDate),
		daysPastDue:   daysPastDue,
		isNPA:         isNPA,
		npaDate:       timeOrZero(npaDate),
		status:        status,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

func termsFromRow(
	principal decimal.Decimal,
	currencyCode string,
	annualRate decimal.Decimal,
	rateBasisStr, dayCountStr, frequencyStr string,
	tenureMonths int,
	startDate time.Time,
	calendarID, adjustmentStr string,
	scheduleKindStr string,
	stepPercent decimal.Decimal,
	stepEveryMonths int,
	balloonPercent, balloonAmount decimal.Decimal,
	moratoriumMonths int,
	moratoriumKindStr, treatmentStr string,
	benchmark string,
	spread decimal.Decimal,
	rateFloor, rateCap *decimal.Decimal,
	resetFrequencyStr string,
	firstResetDate time.Time,
) (model.LoanTerms, error) {
	rateBasis, err := valueobject.NewRateBasis(rateBasisStr)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("parse rate basis: %w", err)
	}
	dayCount, err := daycount.ParseConvention(dayCountStr)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("parse day count: %w", err)
	}
	frequency, err := daycount.ParseFrequency(frequencyStr)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("parse repayment frequency: %w", err)
	}
	adjustment, err := businessday.ParseAdjustment(adjustmentStr)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("parse adjustment: %w", err)
	}
	variant, err := variantFromRow(scheduleKindStr, stepPercent, stepEveryMonths, balloonPercent, balloonAmount)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("rebuild schedule variant: %w", err)
	}
	moratorium, err := moratoriumFromRow(moratoriumMonths, moratoriumKindStr, treatmentStr)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("rebuild moratorium: %w", err)
	}

	// A stored reset frequency marks a floating linkage; fixed loans leave
	// every floating column empty.
	var floating *model.FloatingRateTerms
	if resetFrequencyStr != "" {
		resetFrequency, err := daycount.ParseFrequency(resetFrequencyStr)
		if err != nil {
			return model.LoanTerms{}, fmt.Errorf("parse reset frequency: %w", err)
		}
		f, err := model.NewFloatingRateTerms(benchmark, spread, rateFloor, rateCap, resetFrequency, firstResetDate)
		if err != nil {
			return model.LoanTerms{}, fmt.Errorf("rebuild floating terms: %w", err)
		}
		floating = &f
	}

	return model.NewLoanTerms(
		principal, currencyCode, annualRate,
		rateBasis, dayCount, frequency,
		tenureMonths, startDate, calendarID, adjustment,
		variant, moratorium, floating,
	)
}

func variantFromRow(kind string, stepPercent decimal.Decimal, stepEveryMonths int, balloonPercent, balloonAmount decimal.Decimal) (valueobject.ScheduleVariant, error) {
	k, err := valueobject.NewScheduleKind(kind)
	if err != nil {
		return valueobject.ScheduleVariant{}, err
	}
	switch k {
	case valueobject.ScheduleKindStepUp:
		return valueobject.NewStepUpVariant(stepPercent, stepEveryMonths)
	case valueobject.ScheduleKindStepDown:
		return valueobject.NewStepDownVariant(stepPercent, stepEveryMonths)
	case valueobject.ScheduleKindBalloon:
		return valueobject.NewBalloonVariant(balloonPercent, balloonAmount)
	default:
		return valueobject.StandardVariant(), nil
	}
}

func moratoriumFromRow(months int, kindStr, treatmentStr string) (valueobject.Moratorium, error) {
	if months == 0 {
		return valueobject.Moratorium{}, nil
	}
	kind, err := valueobject.NewMoratoriumKind(kindStr)
	if err != nil {
		return valueobject.Moratorium{}, err
	}
	treatment, err := valueobject.NewInterestTreatment(treatmentStr)
	if err != nil {
		return valueobject.Moratorium{}, err
	}
	return valueobject.NewMoratorium(months, kind, treatment)
}

func (r *LoanRepo) attachSchedule(ctx context.Context, rec loanRecord) (model.Loan, error) {
	schedule, err := r.loadSchedule(ctx, rec.id)
	if err != nil {
		return model.Loan{}, err
	}
	return model.ReconstructLoan(
		rec.id, rec.borrowerID, rec.terms,
		rec.currentRate, rec.nextResetDate,
		schedule,
		rec.daysPastDue, rec.isNPA, rec.npaDate,
		rec.status, rec.version, rec.createdAt, rec.updatedAt,
	), nil
}

func (r *LoanRepo) loadSchedule(ctx context.Context, loanID string) ([]model.Installment, error) {
	query := `
		SELECT number, due_date, period_start, period_end,
		       opening_balance, principal_due, interest_due, fees_due, total_due,
		       closing_balance, principal_paid, interest_paid, fees_paid,
		       is_moratorium, step_number, status
		FROM loan_installments
		WHERE loan_id = $1
		ORDER BY number
	`
	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	var schedule []model.Installment
	for rows.Next() {
		var (
			row       model.Installment
			statusStr string
		)
		err := rows.Scan(
			&row.Number, &row.DueDate, &row.PeriodStart, &row.PeriodEnd,
			&row.OpeningBalance, &row.PrincipalDue, &row.InterestDue, &row.FeesDue, &row.TotalDue,
			&row.ClosingBalance, &row.PrincipalPaid, &row.InterestPaid, &row.FeesPaid,
			&row.IsMoratorium, &row.StepNumber, &statusStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		row.Status, err = valueobject.NewInstallmentStatus(statusStr)
		if err != nil {
			return nil, fmt.Errorf("parse installment status: %w", err)
		}
		schedule = append(schedule, row)
	}
	return schedule, rows.Err()
}
