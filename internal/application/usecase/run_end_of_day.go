package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/application/dto"
	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/port"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/observability"
)

// Stage labels on the batch metrics.
const (
	stageRateReset   = "rate_reset"
	stageDelinquency = "delinquency"
)

const defaultWorkers = 8

// RunEndOfDayUseCase runs the daily batch over all active loans: first the
// rate resets that have come due, then a delinquency snapshot per loan, so
// the snapshots see post-reset state. Loans are processed by a bounded
// worker pool; one loan failing is recorded and the run continues. Reruns
// are safe: resets no longer due are skipped and snapshots are idempotent
// per (loan, date).
type RunEndOfDayUseCase struct {
	loans      port.LoanRepository
	rateResets *ApplyRateResetUseCase
	snapshots  *SnapshotDelinquencyUseCase
	metrics    *observability.BatchMetrics
	logger     *slog.Logger
	workers    int
}

// NewRunEndOfDayUseCase wires dependencies. Metrics may be nil; a
// non-positive worker count falls back to the default.
func NewRunEndOfDayUseCase(
	loans port.LoanRepository,
	rateResets *ApplyRateResetUseCase,
	snapshots *SnapshotDelinquencyUseCase,
	metrics *observability.BatchMetrics,
	logger *slog.Logger,
	workers int,
) *RunEndOfDayUseCase {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &RunEndOfDayUseCase{
		loans:      loans,
		rateResets: rateResets,
		snapshots:  snapshots,
		metrics:    metrics,
		logger:     logger,
		workers:    workers,
	}
}

// Execute runs the end-of-day batch.
func (uc *RunEndOfDayUseCase) Execute(
	ctx context.Context,
	req dto.RunEndOfDayRequest,
) (dto.EndOfDayResponse, error) {
	started := time.Now()
	asOf := req.AsOfDate
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	loanIDs, err := uc.loans.ActiveLoanIDs(ctx)
	if err != nil {
		return dto.EndOfDayResponse{}, fmt.Errorf("list active loans: %w", err)
	}
	uc.logger.InfoContext(ctx, "end-of-day run starting",
		"as_of", asOf, "loans", len(loanIDs), "workers", uc.workers)

	// Stage 1: apply the rate resets that have come due.
	resets := uc.runStage(ctx, stageRateReset, loanIDs,
		func(ctx context.Context, loanID string) (bool, error) {
			loan, err := uc.loans.FindByID(ctx, loanID)
			if err != nil {
				return false, fmt.Errorf("find loan: %w", err)
			}
			if !loan.RateResetDue(asOf) {
				return true, nil
			}
			_, err = uc.rateResets.Execute(ctx, dto.ApplyRateResetRequest{
				LoanID: loanID, ResetDate: asOf,
			})
			return false, err
		})

	// Stage 2: classify and snapshot every active loan.
	snapshots := uc.runStage(ctx, stageDelinquency, loanIDs,
		func(ctx context.Context, loanID string) (bool, error) {
			resp, err := uc.snapshots.Execute(ctx, dto.SnapshotDelinquencyRequest{
				LoanID: loanID, AsOfDate: asOf,
			})
			if err != nil {
				return false, err
			}
			return resp.AlreadyExisted, nil
		})

	if uc.metrics != nil {
		uc.metrics.RunDuration.Observe(time.Since(started).Seconds())
	}
	uc.logger.InfoContext(ctx, "end-of-day run finished",
		"as_of", asOf,
		"resets_processed", resets.Processed, "resets_skipped", resets.Skipped,
		"resets_failed", len(resets.Errors),
		"snapshots_processed", snapshots.Processed, "snapshots_skipped", snapshots.Skipped,
		"snapshots_failed", len(snapshots.Errors),
	)

	return dto.EndOfDayResponse{
		AsOfDate:   asOf,
		RateResets: resets,
		Snapshots:  snapshots,
	}, nil
}

// runStage fans the loan IDs out to the worker pool. process reports
// whether the loan was skipped. A version conflict is retried once: the
// batch shares loans with online traffic, so a single collision is
// ordinary, not an error.
func (uc *RunEndOfDayUseCase) runStage(
	ctx context.Context,
	stage string,
	loanIDs []string,
	process func(ctx context.Context, loanID string) (bool, error),
) dto.EndOfDayStageResponse {
	result := dto.EndOfDayStageResponse{Total: len(loanIDs)}

	jobs := make(chan string, uc.workers)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < uc.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for loanID := range jobs {
				skipped, err := process(ctx, loanID)
				if errors.Is(err, port.ErrVersionConflict) {
					skipped, err = process(ctx, loanID)
				}
				uc.observe(stage, skipped, err)
				if err != nil {
					uc.logger.WarnContext(ctx, "end-of-day stage failed for loan",
						"stage", stage, "loan_id", loanID, "error", err)
				}

				mu.Lock()
				switch {
				case err != nil:
					result.Errors = append(result.Errors, dto.EndOfDayErrorResponse{
						LoanID: loanID, Error: err.Error(),
					})
				case skipped:
					result.Skipped++
				default:
					result.Processed++
				}
				mu.Unlock()
			}
		}()
	}

	for _, loanID := range loanIDs {
		jobs <- loanID
	}
	close(jobs)
	wg.Wait()

	return result
}

func (uc *RunEndOfDayUseCase) observe(stage string, skipped bool, err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case err != nil:
		uc.metrics.LoanErrors.WithLabelValues(stage).Inc()
	case skipped:
		uc.metrics.LoansSkipped.WithLabelValues(stage).Inc()
	default:
		uc.metrics.LoansProcessed.WithLabelValues(stage).Inc()
	}
}
