package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/payrun/backend/internal/domain/payments"
	"github.com/payrun/backend/internal/domain/shared"
	"github.com/payrun/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAllocationRunRepository implements AllocationRunRepository using GORM
type GormAllocationRunRepository struct {
	db *gorm.DB
}

var _ payments.AllocationRunRepository = (*GormAllocationRunRepository)(nil)

// NewGormAllocationRunRepository creates a new GormAllocationRunRepository
func NewGormAllocationRunRepository(db *gorm.DB) *GormAllocationRunRepository {
	return &GormAllocationRunRepository{db: db}
}

// Save persists an allocation run, creating or updating by ID
func (r *GormAllocationRunRepository) Save(ctx context.Context, run *payments.AllocationRun) error {
	var model models.AllocationRunModel
	if err := model.FromDomain(run); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
}

// FindByID finds an allocation run by its ID
func (r *GormAllocationRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*payments.AllocationRun, error) {
	var model models.AllocationRunModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll returns allocation runs newest first with pagination
func (r *GormAllocationRunRepository) FindAll(ctx context.Context, page, pageSize int) (*payments.AllocationRunListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var totalCount int64
	if err := r.db.WithContext(ctx).
		Model(&models.AllocationRunModel{}).
		Count(&totalCount).Error; err != nil {
		return nil, err
	}

	var rows []models.AllocationRunModel
	if err := r.db.WithContext(ctx).
		Order("run_date DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*payments.AllocationRun, 0, len(rows))
	for i := range rows {
		run, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, run)
	}

	return &payments.AllocationRunListResult{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Delete removes an allocation run by ID
func (r *GormAllocationRunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AllocationRunModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
