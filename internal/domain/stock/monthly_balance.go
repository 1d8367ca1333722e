package stock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockbook/backend/internal/domain/shared"
)

// MonthlyBalance accumulates per-item, per-branch movement totals for one
// calendar month. It backs fast historical reporting without replaying the
// ledger; rows are only ever incremented, never rewritten.
type MonthlyBalance struct {
	shared.BaseEntity
	CompanyID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_monthly_balance_bucket,priority:1"`
	BranchID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_monthly_balance_bucket,priority:2"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_monthly_balance_bucket,priority:3"`
	Year        int             `gorm:"not null;uniqueIndex:idx_monthly_balance_bucket,priority:4"`
	Month       int             `gorm:"not null;uniqueIndex:idx_monthly_balance_bucket,priority:5"`
	InQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	InAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (MonthlyBalance) TableName() string {
	return "stock_monthly_balances"
}

// NetQuantity returns in minus out quantity for the month
func (b *MonthlyBalance) NetQuantity() decimal.Decimal {
	return b.InQuantity.Sub(b.OutQuantity)
}

// NetAmount returns in minus out amount for the month
func (b *MonthlyBalance) NetAmount() decimal.Decimal {
	return b.InAmount.Sub(b.OutAmount)
}
