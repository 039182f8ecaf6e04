package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/payrun/backend/internal/domain/payments"
)

// Canonical column names for an invoice batch. Uploaded files may use any
// of the recognized aliases; headers are matched after normalization.
const (
	ColumnInvoiceID     = "invoice_id"
	ColumnVendorName    = "vendor_name"
	ColumnAmount        = "amount"
	ColumnDueDate       = "due_date"
	ColumnDiscountTerms = "discount_terms"
	ColumnPriority      = "priority"
)

// columnAliases maps normalized header spellings to canonical columns
var columnAliases = map[string]string{
	"invoice#":      ColumnInvoiceID,
	"invoiceid":     ColumnInvoiceID,
	"invoice":       ColumnInvoiceID,
	"invoicenumber": ColumnInvoiceID,
	"vendorname":    ColumnVendorName,
	"vendor":        ColumnVendorName,
	"supplier":      ColumnVendorName,
	"suppliername":  ColumnVendorName,
	"amount":        ColumnAmount,
	"amountdue":     ColumnAmount,
	"duedate":       ColumnDueDate,
	"due":           ColumnDueDate,
	"discountterms": ColumnDiscountTerms,
	"terms":         ColumnDiscountTerms,
	"paymentterms":  ColumnDiscountTerms,
	"priority":      ColumnPriority,
}

// requiredColumns must all be present in the header row. Values may still
// be blank for discount terms and priority; blanks get defaults.
var requiredColumns = []string{
	ColumnInvoiceID,
	ColumnVendorName,
	ColumnAmount,
	ColumnDueDate,
	ColumnDiscountTerms,
	ColumnPriority,
}

const defaultMaxRows = 10000

// Batch is the result of reading one uploaded invoice file: the records
// that passed the boundary checks plus the rows that did not.
type Batch struct {
	Records   []payments.InvoiceRecord
	RowErrors []RowError
	TotalRows int // data rows seen, including rejected ones
}

// Option is a functional option for batch reading
type Option func(*reader)

// WithMaxRows caps the number of data rows accepted in one batch
func WithMaxRows(n int) Option {
	return func(r *reader) {
		if n > 0 {
			r.maxRows = n
		}
	}
}

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) Option {
	return func(r *reader) {
		r.delimiter = d
	}
}

type reader struct {
	delimiter rune
	maxRows   int
}

// ReadBatch parses a delimited invoice file into a Batch. The file must
// be UTF-8 (a BOM is tolerated and stripped) and must carry a header row
// with all required columns. Rows that fail coercion are reported as
// RowError values; batch-level failures return an error.
func ReadBatch(src io.Reader, opts ...Option) (*Batch, error) {
	r := &reader{delimiter: ',', maxRows: defaultMaxRows}
	for _, opt := range opts {
		opt(r)
	}

	buf := bufio.NewReader(src)
	if err := stripBOM(buf); err != nil {
		return nil, err
	}
	if err := validateUTF8(buf); err != nil {
		return nil, err
	}

	cr := csv.NewReader(buf)
	cr.Comma = r.delimiter
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	columns, err := parseHeader(cr)
	if err != nil {
		return nil, err
	}

	batch := &Batch{
		Records:   make([]payments.InvoiceRecord, 0),
		RowErrors: make([]RowError, 0),
	}

	line := 1 // header is line 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			batch.TotalRows++
			batch.RowErrors = append(batch.RowErrors, RowError{
				Row:     line,
				Message: fmt.Sprintf("unreadable row: %v", err),
			})
			continue
		}

		row := projectRow(fields, columns)
		if rowIsEmpty(row) {
			continue
		}

		batch.TotalRows++
		if batch.TotalRows > r.maxRows {
			return nil, &TooManyRowsError{Limit: r.maxRows}
		}

		record, rowErrs := mapRow(line, row)
		if len(rowErrs) > 0 {
			batch.RowErrors = append(batch.RowErrors, rowErrs...)
			continue
		}
		batch.Records = append(batch.Records, record)
	}

	return batch, nil
}

// stripBOM discards a leading UTF-8 byte order mark if present
func stripBOM(buf *bufio.Reader) error {
	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}
	return nil
}

// validateUTF8 checks that the leading content is valid UTF-8
func validateUTF8(buf *bufio.Reader) error {
	const checkSize = 4096
	head, err := buf.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(head) == 0 {
		return ErrEmptyFile
	}
	if !utf8.Valid(head) {
		return ErrInvalidEncoding
	}
	return nil
}

// parseHeader reads the header row and resolves aliases to canonical
// columns, returning canonical column -> field index.
func parseHeader(cr *csv.Reader) (map[string]int, error) {
	headers, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(requiredColumns))
	for i, h := range headers {
		if canonical, ok := columnAliases[normalizeHeader(h)]; ok {
			if _, dup := columns[canonical]; !dup {
				columns[canonical] = i
			}
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	return columns, nil
}

// normalizeHeader lowercases a header and strips spaces, underscores and
// hyphens so "Due Date", "due_date" and "DueDate" all match.
func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, h)
}

// projectRow extracts the canonical columns from a raw record, trimming
// whitespace. Short rows yield empty strings for the missing fields.
func projectRow(fields []string, columns map[string]int) map[string]string {
	row := make(map[string]string, len(columns))
	for col, idx := range columns {
		if idx < len(fields) {
			row[col] = strings.TrimSpace(fields[idx])
		} else {
			row[col] = ""
		}
	}
	return row
}

func rowIsEmpty(row map[string]string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
