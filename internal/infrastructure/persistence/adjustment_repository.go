package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockbook/backend/internal/domain/adjustment"
	"github.com/stockbook/backend/internal/domain/shared"
)

// GormAdjustmentRepository implements adjustment.Repository using GORM
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// Create persists a new stock adjustment with its lines.
// A duplicate adjustment number maps to shared.ErrAlreadyExists.
func (r *GormAdjustmentRepository) Create(ctx context.Context, adj *adjustment.StockAdjustment) error {
	if err := r.db.WithContext(ctx).Create(adj).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a stock adjustment by its ID, including lines
func (r *GormAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*adjustment.StockAdjustment, error) {
	var adj adjustment.StockAdjustment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&adj, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adj, nil
}

// FindByNumber finds a stock adjustment by its adjustment number
func (r *GormAdjustmentRepository) FindByNumber(ctx context.Context, number string) (*adjustment.StockAdjustment, error) {
	var adj adjustment.StockAdjustment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&adj, "adjustment_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adj, nil
}

// FindAll finds stock adjustments for a company and branch
func (r *GormAdjustmentRepository) FindAll(ctx context.Context, companyID, branchID uuid.UUID, filter shared.Filter) ([]adjustment.StockAdjustment, error) {
	var adjs []adjustment.StockAdjustment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&adjustment.StockAdjustment{}).
			Preload("Lines").
			Where("company_id = ? AND branch_id = ?", companyID, branchID),
		filter,
	)

	if err := query.Find(&adjs).Error; err != nil {
		return nil, err
	}
	return adjs, nil
}

// Count counts stock adjustments for a company and branch
func (r *GormAdjustmentRepository) Count(ctx context.Context, companyID, branchID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&adjustment.StockAdjustment{}).
		Where("company_id = ? AND branch_id = ?", companyID, branchID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save updates an existing adjustment, replacing its lines wholesale.
// The edit workflow always carries the full new line set, so stale rows
// are removed before the aggregate is written back.
func (r *GormAdjustmentRepository) Save(ctx context.Context, adj *adjustment.StockAdjustment) error {
	if err := r.db.WithContext(ctx).
		Where("adjustment_id = ?", adj.ID).
		Delete(&adjustment.Line{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(adj).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a stock adjustment and its lines
func (r *GormAdjustmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("adjustment_id = ?", id).
		Delete(&adjustment.Line{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&adjustment.StockAdjustment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormAdjustmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	orderBy := ValidateSortField(filter.OrderBy, AdjustmentSortFields, "adjustment_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormAdjustmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "adjustment_type":
			query = query.Where("adjustment_type = ?", value)
		case "start_date":
			query = query.Where("adjustment_date >= ?", value)
		case "end_date":
			query = query.Where("adjustment_date <= ?", value)
		}
	}

	return query
}

// isDuplicateKeyError reports whether err is a unique constraint violation.
// GORM's translated error is checked first; the string fallback covers
// drivers without error translation (sqlite in tests, raw pq errors).
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}

// Ensure GormAdjustmentRepository implements adjustment.Repository
var _ adjustment.Repository = (*GormAdjustmentRepository)(nil)
