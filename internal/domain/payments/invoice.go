package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

// MustPayPriority is the priority tier that forces an invoice to the front
// of the candidate ordering when it is due before the next pay run.
const MustPayPriority = 1

// InvoiceRecord is one vendor invoice in an uploaded batch. Records are
// immutable for the duration of an allocation call; the ingestion adapter
// is responsible for delivering well-typed values.
type InvoiceRecord struct {
	InvoiceID     string
	VendorName    string
	Amount        decimal.Decimal
	DueDate       time.Time
	DiscountTerms string
	Priority      int
}

// IsMustPay returns true for invoices in the forced-priority tier
func (r InvoiceRecord) IsMustPay() bool {
	return r.Priority == MustPayPriority
}

// DueOnOrBefore reports whether the invoice is due on or before the given
// date, comparing calendar days only.
func (r InvoiceRecord) DueOnOrBefore(date time.Time) bool {
	return !DateOnly(r.DueDate).After(DateOnly(date))
}

// DateOnly truncates a timestamp to its calendar date in UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
