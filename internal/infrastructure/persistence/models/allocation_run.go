package models

import (
	"time"

	"github.com/payrun/backend/internal/domain/payments"
	"github.com/shopspring/decimal"
)

// AllocationRunModel is the persistence model for payments.AllocationRun.
// The payment schedule is stored denormalized as a JSON document; runs are
// immutable audit records and the schedule is never queried row by row.
type AllocationRunModel struct {
	BaseModel
	FileName       string          `gorm:"not null"`
	FileSize       int64           `gorm:"not null"`
	CurrentCash    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	RunwayDays     int             `gorm:"not null"`
	Frequency      string          `gorm:"type:varchar(20);not null"`
	MaxSpend       decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	RunDate        time.Time       `gorm:"not null;index"`
	NextRunDate    time.Time       `gorm:"not null"`
	TotalRows      int             `gorm:"not null"`
	ErrorRows      int             `gorm:"not null"`
	ScheduledCount int             `gorm:"not null"`
	TotalScheduled decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TotalDiscount  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Payments       string          `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName specifies the table name for AllocationRunModel
func (AllocationRunModel) TableName() string {
	return "allocation_runs"
}

// ToDomain converts the persistence model to the domain aggregate
func (m *AllocationRunModel) ToDomain() (*payments.AllocationRun, error) {
	run := &payments.AllocationRun{
		BaseEntity:     m.BaseModel.ToDomain(),
		FileName:       m.FileName,
		FileSize:       m.FileSize,
		CurrentCash:    m.CurrentCash,
		RunwayDays:     m.RunwayDays,
		Frequency:      payments.Frequency(m.Frequency),
		MaxSpend:       m.MaxSpend,
		RunDate:        m.RunDate,
		NextRunDate:    m.NextRunDate,
		TotalRows:      m.TotalRows,
		ErrorRows:      m.ErrorRows,
		ScheduledCount: m.ScheduledCount,
		TotalScheduled: m.TotalScheduled,
		TotalDiscount:  m.TotalDiscount,
	}
	if err := run.SetPaymentsFromJSON(m.Payments); err != nil {
		return nil, err
	}
	return run, nil
}

// FromDomain populates the persistence model from the domain aggregate
func (m *AllocationRunModel) FromDomain(run *payments.AllocationRun) error {
	paymentsJSON, err := run.PaymentsJSON()
	if err != nil {
		return err
	}

	m.FromDomainBaseEntity(run.BaseEntity)
	m.FileName = run.FileName
	m.FileSize = run.FileSize
	m.CurrentCash = run.CurrentCash
	m.RunwayDays = run.RunwayDays
	m.Frequency = string(run.Frequency)
	m.MaxSpend = run.MaxSpend
	m.RunDate = run.RunDate
	m.NextRunDate = run.NextRunDate
	m.TotalRows = run.TotalRows
	m.ErrorRows = run.ErrorRows
	m.ScheduledCount = run.ScheduledCount
	m.TotalScheduled = run.TotalScheduled
	m.TotalDiscount = run.TotalDiscount
	m.Payments = paymentsJSON
	return nil
}
