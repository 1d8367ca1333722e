package stock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockbook/backend/internal/domain/shared"
)

// Level tracks the on-hand quantity of one item in one branch.
// One row exists per (company, branch, item); it is mutated only through
// conditional single-statement deltas so concurrent writers cannot
// overdraw the quantity below zero.
type Level struct {
	shared.BaseEntity
	CompanyID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_item,priority:1"`
	BranchID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_item,priority:2"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_item,priority:3"`
	OnHand    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Level) TableName() string {
	return "stock_levels"
}

// NewLevel creates a stock level row with zero on-hand quantity
func NewLevel(companyID, branchID, itemID uuid.UUID) *Level {
	return &Level{
		BaseEntity: shared.NewBaseEntity(),
		CompanyID:  companyID,
		BranchID:   branchID,
		ItemID:     itemID,
		OnHand:     decimal.Zero,
	}
}

// CanFulfill reports whether the given quantity can be removed without
// taking on-hand below zero
func (l *Level) CanFulfill(quantity decimal.Decimal) bool {
	return l.OnHand.GreaterThanOrEqual(quantity)
}
