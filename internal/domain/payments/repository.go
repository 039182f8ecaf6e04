package payments

import (
	"context"

	"github.com/google/uuid"
)

// AllocationRunListResult holds a page of allocation runs
type AllocationRunListResult struct {
	Items      []*AllocationRun
	TotalCount int64
	Page       int
	PageSize   int
}

// AllocationRunRepository defines persistence operations for allocation runs
type AllocationRunRepository interface {
	// Save persists an allocation run (create or update)
	Save(ctx context.Context, run *AllocationRun) error

	// FindByID finds an allocation run by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AllocationRun, error)

	// FindAll returns allocation runs ordered by run date descending,
	// newest first, with pagination
	FindAll(ctx context.Context, page, pageSize int) (*AllocationRunListResult, error)

	// Delete removes an allocation run by ID
	Delete(ctx context.Context, id uuid.UUID) error
}
