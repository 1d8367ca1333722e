package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockbook/backend/internal/domain/shared"
	"github.com/stockbook/backend/internal/domain/stock"
)

// GormStockLevelRepository implements stock.LevelRepository using GORM
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// ApplyDelta adjusts on-hand quantities for every line in a single
// statement per item. Increments upsert the row; decrements run a
// conditional UPDATE guarded by on_hand >= quantity, so a concurrent
// writer can never take the level below zero. A failed guard surfaces
// as shared.ErrInsufficientStock and the caller's transaction rolls
// back any lines already applied.
func (r *GormStockLevelRepository) ApplyDelta(ctx context.Context, companyID, branchID uuid.UUID, lines []stock.MovementLine, direction stock.Direction) error {
	if !direction.IsValid() {
		return shared.ErrInvalidInput
	}

	for i := range lines {
		line := &lines[i]
		if direction == stock.DirectionIn {
			if err := r.increment(ctx, companyID, branchID, line); err != nil {
				return err
			}
			continue
		}
		if err := r.decrement(ctx, companyID, branchID, line); err != nil {
			return err
		}
	}
	return nil
}

// increment adds quantity to the level row, creating it on first movement
func (r *GormStockLevelRepository) increment(ctx context.Context, companyID, branchID uuid.UUID, line *stock.MovementLine) error {
	level := stock.NewLevel(companyID, branchID, line.ItemID)
	level.OnHand = line.Quantity

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "company_id"}, {Name: "branch_id"}, {Name: "item_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"on_hand":    gorm.Expr("stock_levels.on_hand + ?", line.Quantity),
				"updated_at": time.Now(),
			}),
		}).
		Create(level).Error
}

// decrement subtracts quantity, refusing to go below zero
func (r *GormStockLevelRepository) decrement(ctx context.Context, companyID, branchID uuid.UUID, line *stock.MovementLine) error {
	result := r.db.WithContext(ctx).
		Model(&stock.Level{}).
		Where("company_id = ? AND branch_id = ? AND item_id = ? AND on_hand >= ?",
			companyID, branchID, line.ItemID, line.Quantity).
		Updates(map[string]interface{}{
			"on_hand":    gorm.Expr("on_hand - ?", line.Quantity),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

// FindByItem finds the stock level row for one item in one branch
func (r *GormStockLevelRepository) FindByItem(ctx context.Context, companyID, branchID, itemID uuid.UUID) (*stock.Level, error) {
	var level stock.Level
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND branch_id = ? AND item_id = ?", companyID, branchID, itemID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// Ensure GormStockLevelRepository implements stock.LevelRepository
var _ stock.LevelRepository = (*GormStockLevelRepository)(nil)
