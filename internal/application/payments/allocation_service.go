package payments

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/payrun/backend/internal/domain/payments"
	"github.com/payrun/backend/internal/domain/shared"
	"github.com/payrun/backend/internal/infrastructure/ingest"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AllocationService orchestrates an allocation run: it ingests the uploaded
// invoice batch, computes the payment schedule, and records the run.
type AllocationService struct {
	runs         payments.AllocationRunRepository
	logger       *zap.Logger
	maxBatchRows int
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(
	runs payments.AllocationRunRepository,
	logger *zap.Logger,
	maxBatchRows int,
) *AllocationService {
	return &AllocationService{
		runs:         runs,
		logger:       logger,
		maxBatchRows: maxBatchRows,
	}
}

// OptimizeCommand carries the inputs for one allocation run
type OptimizeCommand struct {
	FileName    string
	FileSize    int64
	CurrentCash decimal.Decimal
	RunwayDays  int
	Frequency   payments.Frequency
	MaxSpend    decimal.Decimal // zero means no override
	Today       time.Time       // zero value means use the current date
}

// OptimizeResult is the outcome of a completed allocation run
type OptimizeResult struct {
	Run       *payments.AllocationRun
	RowErrors []ingest.RowError
}

// Optimize runs the allocator against an uploaded invoice file and
// persists the resulting run for later review.
func (s *AllocationService) Optimize(ctx context.Context, cmd OptimizeCommand, file io.Reader) (*OptimizeResult, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}

	today := cmd.Today
	if today.IsZero() {
		today = time.Now().UTC()
	}

	batch, err := ingest.ReadBatch(file, ingest.WithMaxRows(s.maxBatchRows))
	if err != nil {
		return nil, err
	}

	params := payments.RunParameters{
		CurrentCash: cmd.CurrentCash,
		RunwayDays:  cmd.RunwayDays,
		Frequency:   cmd.Frequency,
		MaxSpend:    cmd.MaxSpend,
	}

	schedule := payments.Allocate(batch.Records, params, today)

	run, err := payments.NewAllocationRun(
		cmd.FileName,
		cmd.FileSize,
		params,
		today,
		batch.TotalRows,
		len(batch.RowErrors),
		schedule,
	)
	if err != nil {
		return nil, err
	}

	if err := s.runs.Save(ctx, run); err != nil {
		return nil, err
	}

	s.logger.Info("Allocation run completed",
		zap.String("run_id", run.ID.String()),
		zap.String("file_name", run.FileName),
		zap.Int("total_rows", run.TotalRows),
		zap.Int("error_rows", run.ErrorRows),
		zap.Int("scheduled_count", run.ScheduledCount),
		zap.String("total_scheduled", run.TotalScheduled.String()),
		zap.String("total_discount", run.TotalDiscount.String()),
	)

	return &OptimizeResult{
		Run:       run,
		RowErrors: batch.RowErrors,
	}, nil
}

// ListRuns returns past allocation runs newest first
func (s *AllocationService) ListRuns(ctx context.Context, page, pageSize int) (*payments.AllocationRunListResult, error) {
	return s.runs.FindAll(ctx, page, pageSize)
}

// GetRun returns a single allocation run by ID
func (s *AllocationService) GetRun(ctx context.Context, id uuid.UUID) (*payments.AllocationRun, error) {
	return s.runs.FindByID(ctx, id)
}

func validateCommand(cmd OptimizeCommand) error {
	if cmd.FileName == "" {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if cmd.CurrentCash.IsNegative() {
		return shared.NewDomainError("INVALID_CASH", "Current cash cannot be negative")
	}
	if cmd.RunwayDays < 0 {
		return shared.NewDomainError("INVALID_RUNWAY", "Runway days cannot be negative")
	}
	if !cmd.Frequency.IsValid() {
		return shared.NewDomainError("INVALID_FREQUENCY", "Frequency must be Weekly, Bi-Weekly, or Monthly")
	}
	return nil
}
