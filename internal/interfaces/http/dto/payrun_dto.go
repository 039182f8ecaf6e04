package dto

import (
	"time"

	"github.com/payrun/backend/internal/domain/payments"
	"github.com/payrun/backend/internal/infrastructure/ingest"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// OptimizeRequest holds the form fields for an allocation run.
// The invoice batch itself arrives as a multipart file upload.
type OptimizeRequest struct {
	CurrentCash string `form:"cash" binding:"required"`
	RunwayDays  int    `form:"runway" binding:"omitempty,min=0"`
	Frequency   string `form:"frequency" binding:"required"`
	MaxSpend    string `form:"max_spend" binding:"omitempty"`
}

// ScheduledPaymentResponse represents one line of the payment schedule
type ScheduledPaymentResponse struct {
	VendorName         string          `json:"vendor_name"`
	InvoiceID          string          `json:"invoice_id"`
	OrigDueDate        string          `json:"orig_due_date"`
	RecommendedPayDate string          `json:"recommended_pay_date"`
	Amount             decimal.Decimal `json:"amount"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	Priority           int             `json:"priority"`
}

// RowErrorResponse reports one rejected row from the uploaded batch
type RowErrorResponse struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// AllocationRunResponse represents a completed allocation run
type AllocationRunResponse struct {
	ID             string                     `json:"id"`
	FileName       string                     `json:"file_name"`
	FileSize       int64                      `json:"file_size"`
	CurrentCash    decimal.Decimal            `json:"current_cash"`
	RunwayDays     int                        `json:"runway_days"`
	Frequency      string                     `json:"frequency"`
	MaxSpend       decimal.Decimal            `json:"max_spend"`
	SpendCap       decimal.Decimal            `json:"spend_cap"`
	RunDate        string                     `json:"run_date"`
	NextRunDate    string                     `json:"next_run_date"`
	TotalRows      int                        `json:"total_rows"`
	ErrorRows      int                        `json:"error_rows"`
	ScheduledCount int                        `json:"scheduled_count"`
	TotalScheduled decimal.Decimal            `json:"total_scheduled"`
	TotalDiscount  decimal.Decimal            `json:"total_discount"`
	Payments       []ScheduledPaymentResponse `json:"payments"`
	CreatedAt      time.Time                  `json:"created_at"`
}

// AllocationRunSummaryResponse is the list view of a run, without the schedule
type AllocationRunSummaryResponse struct {
	ID             string          `json:"id"`
	FileName       string          `json:"file_name"`
	Frequency      string          `json:"frequency"`
	RunDate        string          `json:"run_date"`
	NextRunDate    string          `json:"next_run_date"`
	TotalRows      int             `json:"total_rows"`
	ErrorRows      int             `json:"error_rows"`
	ScheduledCount int             `json:"scheduled_count"`
	TotalScheduled decimal.Decimal `json:"total_scheduled"`
	TotalDiscount  decimal.Decimal `json:"total_discount"`
	CreatedAt      time.Time       `json:"created_at"`
}

// OptimizeResponse pairs the stored run with the row errors of this upload.
// Row errors are reported once and not persisted with the run.
type OptimizeResponse struct {
	Run       AllocationRunResponse `json:"run"`
	RowErrors []RowErrorResponse    `json:"row_errors"`
}

// ToScheduledPaymentResponse converts a domain scheduled payment to its response form
func ToScheduledPaymentResponse(p payments.ScheduledPayment) ScheduledPaymentResponse {
	return ScheduledPaymentResponse{
		VendorName:         p.VendorName,
		InvoiceID:          p.InvoiceID,
		OrigDueDate:        p.OrigDueDate.Format(dateLayout),
		RecommendedPayDate: p.RecommendedPayDate.Format(dateLayout),
		Amount:             p.Amount,
		DiscountAmount:     p.DiscountAmount,
		Priority:           p.Priority,
	}
}

// ToAllocationRunResponse converts a domain allocation run to its response form
func ToAllocationRunResponse(run *payments.AllocationRun) AllocationRunResponse {
	schedule := make([]ScheduledPaymentResponse, 0, len(run.Payments))
	for _, p := range run.Payments {
		schedule = append(schedule, ToScheduledPaymentResponse(p))
	}

	return AllocationRunResponse{
		ID:             run.ID.String(),
		FileName:       run.FileName,
		FileSize:       run.FileSize,
		CurrentCash:    run.CurrentCash,
		RunwayDays:     run.RunwayDays,
		Frequency:      string(run.Frequency),
		MaxSpend:       run.MaxSpend,
		SpendCap:       run.SpendCap(),
		RunDate:        run.RunDate.Format(dateLayout),
		NextRunDate:    run.NextRunDate.Format(dateLayout),
		TotalRows:      run.TotalRows,
		ErrorRows:      run.ErrorRows,
		ScheduledCount: run.ScheduledCount,
		TotalScheduled: run.TotalScheduled,
		TotalDiscount:  run.TotalDiscount,
		Payments:       schedule,
		CreatedAt:      run.CreatedAt,
	}
}

// ToAllocationRunSummaryResponse converts a domain allocation run to its list form
func ToAllocationRunSummaryResponse(run *payments.AllocationRun) AllocationRunSummaryResponse {
	return AllocationRunSummaryResponse{
		ID:             run.ID.String(),
		FileName:       run.FileName,
		Frequency:      string(run.Frequency),
		RunDate:        run.RunDate.Format(dateLayout),
		NextRunDate:    run.NextRunDate.Format(dateLayout),
		TotalRows:      run.TotalRows,
		ErrorRows:      run.ErrorRows,
		ScheduledCount: run.ScheduledCount,
		TotalScheduled: run.TotalScheduled,
		TotalDiscount:  run.TotalDiscount,
		CreatedAt:      run.CreatedAt,
	}
}

// ToRowErrorResponses converts ingest row errors to their response form
func ToRowErrorResponses(rowErrors []ingest.RowError) []RowErrorResponse {
	out := make([]RowErrorResponse, 0, len(rowErrors))
	for _, re := range rowErrors {
		out = append(out, RowErrorResponse{
			Row:     re.Row,
			Column:  re.Column,
			Message: re.Message,
		})
	}
	return out
}
