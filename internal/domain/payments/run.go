package payments

import (
	"encoding/json"
	"time"

	"github.com/payrun/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AllocationRun is the audit record of one completed allocation call. It
// exists so finance users can revisit what a pay run decided and why; the
// allocator itself never reads prior runs.
type AllocationRun struct {
	shared.BaseEntity
	FileName       string
	FileSize       int64
	CurrentCash    decimal.Decimal
	RunwayDays     int
	Frequency      Frequency
	MaxSpend       decimal.Decimal // zero means no override was given
	RunDate        time.Time       // reference "today" the run was computed against
	NextRunDate    time.Time
	TotalRows      int // rows in the uploaded batch, including rejected ones
	ErrorRows      int // rows rejected by the ingestion boundary
	ScheduledCount int
	TotalScheduled decimal.Decimal
	TotalDiscount  decimal.Decimal
	Payments       []ScheduledPayment
}

// NewAllocationRun creates the audit record for a completed run. Totals
// are derived from the schedule rather than trusted from the caller.
func NewAllocationRun(
	fileName string,
	fileSize int64,
	params RunParameters,
	today time.Time,
	totalRows, errorRows int,
	payments []ScheduledPayment,
) (*AllocationRun, error) {
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if params.CurrentCash.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CASH", "Current cash cannot be negative")
	}
	if params.RunwayDays < 0 {
		return nil, shared.NewDomainError("INVALID_RUNWAY", "Runway days cannot be negative")
	}
	if totalRows < 0 || errorRows < 0 || errorRows > totalRows {
		return nil, shared.NewDomainError("INVALID_ROW_COUNTS", "Row counts are inconsistent")
	}

	totalScheduled := decimal.Zero
	totalDiscount := decimal.Zero
	for _, p := range payments {
		totalScheduled = totalScheduled.Add(p.Amount)
		totalDiscount = totalDiscount.Add(p.DiscountAmount)
	}

	return &AllocationRun{
		BaseEntity:     shared.NewBaseEntity(),
		FileName:       fileName,
		FileSize:       fileSize,
		CurrentCash:    params.CurrentCash,
		RunwayDays:     params.RunwayDays,
		Frequency:      params.Frequency,
		MaxSpend:       params.MaxSpend,
		RunDate:        DateOnly(today),
		NextRunDate:    DateOnly(NextRunDate(today, params.Frequency)),
		TotalRows:      totalRows,
		ErrorRows:      errorRows,
		ScheduledCount: len(payments),
		TotalScheduled: totalScheduled,
		TotalDiscount:  totalDiscount,
		Payments:       payments,
	}, nil
}

// Parameters reconstructs the run parameters this run was computed with
func (r *AllocationRun) Parameters() RunParameters {
	return RunParameters{
		CurrentCash: r.CurrentCash,
		RunwayDays:  r.RunwayDays,
		Frequency:   r.Frequency,
		MaxSpend:    r.MaxSpend,
	}
}

// SpendCap returns the cap the run was allocated under
func (r *AllocationRun) SpendCap() decimal.Decimal {
	return r.Parameters().SpendCap()
}

// PaymentsJSON serializes the schedule for persistence
func (r *AllocationRun) PaymentsJSON() (string, error) {
	data, err := json.Marshal(r.Payments)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetPaymentsFromJSON restores the schedule from its persisted form
func (r *AllocationRun) SetPaymentsFromJSON(data string) error {
	if data == "" {
		r.Payments = nil
		return nil
	}
	return json.Unmarshal([]byte(data), &r.Payments)
}
