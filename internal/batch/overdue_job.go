package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"circulation-engine/internal/domain/circulation"
)

type OverdueSweepJob struct {
	ledger circulation.LedgerService
	logger *slog.Logger
}

func NewOverdueSweepJob(ledger circulation.LedgerService, logger *slog.Logger) *OverdueSweepJob {
	if ledger == nil || logger == nil {
		panic("OverdueSweepJob dependencies cannot be nil")
	}
	return &OverdueSweepJob{
		ledger: ledger,
		logger: logger.With("job", "OverdueSweep"),
	}
}

// Run executes one full sweep. The sweep has no partial state: it
// either completes for all loans or reports the error.
func (j *OverdueSweepJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting overdue loan status sweep.")

	transitioned, err := j.ledger.RefreshLoanStatuses(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Overdue sweep failed.", slog.Any("error", err))
		return fmt.Errorf("overdue sweep failed: %w", err)
	}

	j.logger.InfoContext(ctx, "Overdue loan status sweep finished.",
		slog.Int("loans_transitioned", transitioned),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}
