package ingest

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/payrun/backend/internal/domain/payments"
	"github.com/shopspring/decimal"
)

// defaultPriority is assigned when the priority cell is blank; anything
// other than 1 is the normal tier.
const defaultPriority = 2

// dueDateLayouts are the date formats accepted in the due-date column
var dueDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// mapRow coerces one projected row into an InvoiceRecord. All problems in
// the row are reported, not just the first, so a finance user can fix the
// file in one pass. The core assumes validated values; this is where that
// contract is enforced.
func mapRow(line int, row map[string]string) (payments.InvoiceRecord, []RowError) {
	var errs []RowError

	invoiceID := row[ColumnInvoiceID]
	if invoiceID == "" {
		errs = append(errs, RowError{Row: line, Column: ColumnInvoiceID, Message: "invoice id is required"})
	}

	vendorName := row[ColumnVendorName]
	if vendorName == "" {
		errs = append(errs, RowError{Row: line, Column: ColumnVendorName, Message: "vendor name is required"})
	}

	amount, err := parseAmount(row[ColumnAmount])
	if err != nil {
		errs = append(errs, RowError{Row: line, Column: ColumnAmount, Message: err.Error()})
	}

	dueDate, err := parseDueDate(row[ColumnDueDate])
	if err != nil {
		errs = append(errs, RowError{Row: line, Column: ColumnDueDate, Message: err.Error()})
	}

	priority, err := parsePriority(row[ColumnPriority])
	if err != nil {
		errs = append(errs, RowError{Row: line, Column: ColumnPriority, Message: err.Error()})
	}

	if len(errs) > 0 {
		return payments.InvoiceRecord{}, errs
	}

	return payments.InvoiceRecord{
		InvoiceID:     invoiceID,
		VendorName:    vendorName,
		Amount:        amount,
		DueDate:       dueDate,
		DiscountTerms: row[ColumnDiscountTerms],
		Priority:      priority,
	}, nil
}

// parseAmount coerces an amount cell to a positive decimal. Currency
// symbols and thousands separators are tolerated.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fieldError("amount is required")
	}
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fieldError("amount is not a number")
	}
	if !amount.IsPositive() {
		return decimal.Zero, fieldError("amount must be positive")
	}
	return amount, nil
}

func parseDueDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fieldError("due date is required")
	}
	for _, layout := range dueDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fieldError("due date is not a recognized date")
}

func parsePriority(s string) (int, error) {
	if s == "" {
		return defaultPriority, nil
	}
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fieldError("priority is not an integer")
	}
	return p, nil
}

// fieldError wraps a cell-level message as a plain error for row reporting
func fieldError(msg string) error {
	return errors.New(msg)
}
