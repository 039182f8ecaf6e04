package payments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	domain "github.com/payrun/backend/internal/domain/payments"
	"github.com/payrun/backend/internal/domain/shared"
	"github.com/payrun/backend/internal/infrastructure/ingest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// inMemoryRunRepository is a map-backed AllocationRunRepository for tests
type inMemoryRunRepository struct {
	runs map[uuid.UUID]*domain.AllocationRun
}

func newInMemoryRunRepository() *inMemoryRunRepository {
	return &inMemoryRunRepository{runs: make(map[uuid.UUID]*domain.AllocationRun)}
}

func (r *inMemoryRunRepository) Save(_ context.Context, run *domain.AllocationRun) error {
	r.runs[run.ID] = run
	return nil
}

func (r *inMemoryRunRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.AllocationRun, error) {
	run, ok := r.runs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return run, nil
}

func (r *inMemoryRunRepository) FindAll(_ context.Context, page, pageSize int) (*domain.AllocationRunListResult, error) {
	items := make([]*domain.AllocationRun, 0, len(r.runs))
	for _, run := range r.runs {
		items = append(items, run)
	}
	return &domain.AllocationRunListResult{
		Items:      items,
		TotalCount: int64(len(items)),
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (r *inMemoryRunRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.runs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.runs, id)
	return nil
}

func newTestService(repo domain.AllocationRunRepository) *AllocationService {
	return NewAllocationService(repo, zap.NewNop(), 1000)
}

func baseCommand() OptimizeCommand {
	return OptimizeCommand{
		FileName:    "invoices.csv",
		FileSize:    512,
		CurrentCash: decimal.NewFromInt(2000),
		RunwayDays:  90,
		Frequency:   domain.FrequencyWeekly,
		Today:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

const optimizeCSV = `Invoice#,VendorName,Amount,DueDate,DiscountTerms,Priority
INV-001,Acme Supplies,1200.00,2024-06-05,2/10 Net 30,1
INV-002,Globex,850.00,2024-06-03,,2
INV-003,Initech,430.25,2024-09-01,1/15 Net 45,2
INV-004,Hooli,abc,2024-06-04,,2
`

func TestAllocationService_Optimize(t *testing.T) {
	repo := newInMemoryRunRepository()
	svc := newTestService(repo)

	result, err := svc.Optimize(context.Background(), baseCommand(), strings.NewReader(optimizeCSV))
	require.NoError(t, err)

	run := result.Run
	assert.Equal(t, 4, run.TotalRows)
	assert.Equal(t, 1, run.ErrorRows)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 4, result.RowErrors[0].Row)

	// 1200 must-pay fits; 850 would breach the 2000 cap and is skipped,
	// the walk continues and picks up the 430.25 discount candidate
	assert.Equal(t, 2, run.ScheduledCount)
	require.Len(t, run.Payments, 2)
	assert.Equal(t, "INV-001", run.Payments[0].InvoiceID)
	assert.Equal(t, "INV-003", run.Payments[1].InvoiceID)
	assert.True(t, run.TotalScheduled.Equal(decimal.NewFromFloat(1630.25)))
	assert.True(t, run.TotalDiscount.Equal(decimal.NewFromFloat(4.30)))

	// run was persisted
	stored, err := repo.FindByID(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, stored.ID)

	// next run date follows the weekly cadence
	assert.Equal(t, time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), run.NextRunDate)
}

func TestAllocationService_Optimize_ValidatesCommand(t *testing.T) {
	svc := newTestService(newInMemoryRunRepository())

	tests := []struct {
		name     string
		mutate   func(*OptimizeCommand)
		wantCode string
	}{
		{"empty file name", func(c *OptimizeCommand) { c.FileName = "" }, "INVALID_FILE_NAME"},
		{"negative cash", func(c *OptimizeCommand) { c.CurrentCash = decimal.NewFromInt(-1) }, "INVALID_CASH"},
		{"negative runway", func(c *OptimizeCommand) { c.RunwayDays = -1 }, "INVALID_RUNWAY"},
		{"bad frequency", func(c *OptimizeCommand) { c.Frequency = "Quarterly" }, "INVALID_FREQUENCY"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := baseCommand()
			tc.mutate(&cmd)

			_, err := svc.Optimize(context.Background(), cmd, strings.NewReader(optimizeCSV))
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tc.wantCode, domainErr.Code)
		})
	}
}

func TestAllocationService_Optimize_PropagatesIngestErrors(t *testing.T) {
	svc := newTestService(newInMemoryRunRepository())

	_, err := svc.Optimize(context.Background(), baseCommand(), strings.NewReader(""))
	assert.ErrorIs(t, err, ingest.ErrEmptyFile)
}

func TestAllocationService_Optimize_EnforcesRowCap(t *testing.T) {
	repo := newInMemoryRunRepository()
	svc := NewAllocationService(repo, zap.NewNop(), 2)

	_, err := svc.Optimize(context.Background(), baseCommand(), strings.NewReader(optimizeCSV))
	var tooMany *ingest.TooManyRowsError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 2, tooMany.Limit)
}

func TestAllocationService_GetRun(t *testing.T) {
	repo := newInMemoryRunRepository()
	svc := newTestService(repo)

	result, err := svc.Optimize(context.Background(), baseCommand(), strings.NewReader(optimizeCSV))
	require.NoError(t, err)

	found, err := svc.GetRun(context.Background(), result.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Run.ID, found.ID)

	_, err = svc.GetRun(context.Background(), uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestAllocationService_ListRuns(t *testing.T) {
	repo := newInMemoryRunRepository()
	svc := newTestService(repo)

	for i := 0; i < 3; i++ {
		_, err := svc.Optimize(context.Background(), baseCommand(), strings.NewReader(optimizeCSV))
		require.NoError(t, err)
	}

	list, err := svc.ListRuns(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.TotalCount)
	assert.Len(t, list.Items, 3)
}
