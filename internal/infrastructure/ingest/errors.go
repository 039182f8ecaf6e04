package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for batch-level failures. Row-level problems are not
// errors; they are collected as RowError values so one bad row never
// rejects a whole upload.
var (
	// ErrEmptyFile is returned when the uploaded file has no content
	ErrEmptyFile = errors.New("file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("file encoding is not valid UTF-8")

	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("file is missing header row")
)

// MissingColumnsError is returned when the header row lacks required columns
type MissingColumnsError struct {
	Columns []string
}

// Error implements the error interface
func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// TooManyRowsError is returned when a batch exceeds the configured row cap
type TooManyRowsError struct {
	Limit int
}

// Error implements the error interface
func (e *TooManyRowsError) Error() string {
	return fmt.Sprintf("batch exceeds maximum of %d rows", e.Limit)
}

// RowError describes why a single row was rejected at the ingestion
// boundary. Row numbers are 1-indexed file line numbers, header included.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}
