package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockbook/backend/internal/domain/shared"
)

// LedgerEntry is an immutable audit record of one stock movement.
// Entries are append-only: edits and deletes of their source transaction
// add new entries instead of rewriting existing ones.
type LedgerEntry struct {
	shared.BaseEntity
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_ledger_scope,priority:1"`
	BranchID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_ledger_scope,priority:2"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_ledger_item"`
	ItemCode          string          `gorm:"type:varchar(50)"`
	ItemName          string          `gorm:"type:varchar(255)"`
	Unit              string          `gorm:"type:varchar(30)"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate              decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MovementType      MovementType    `gorm:"type:varchar(10);not null;index:idx_stock_ledger_movement"`
	TransactionType   TransactionType `gorm:"type:varchar(40);not null;index:idx_stock_ledger_tx_type"`
	TransactionID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_ledger_tx"`
	TransactionNumber string          `gorm:"type:varchar(50);index:idx_stock_ledger_tx_number"`
	TransactionDate   time.Time       `gorm:"not null;index:idx_stock_ledger_date"`
	Account           string          `gorm:"type:varchar(100)"`
	AccountName       string          `gorm:"type:varchar(255)"`
	CreatedBy         uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "stock_ledger_entries"
}

// NewLedgerEntries builds one ledger entry per movement line.
// Quantity, rate and amount are copied from the line; the movement type
// and transaction linkage come from the context.
func NewLedgerEntries(mc MovementContext) ([]LedgerEntry, error) {
	if !mc.Movement.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Movement type must be in or out")
	}
	if len(mc.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_MOVEMENT", "Movement must contain at least one line")
	}

	entries := make([]LedgerEntry, 0, len(mc.Lines))
	for _, line := range mc.Lines {
		entries = append(entries, LedgerEntry{
			BaseEntity:        shared.NewBaseEntity(),
			CompanyID:         mc.CompanyID,
			BranchID:          mc.BranchID,
			ItemID:            line.ItemID,
			ItemCode:          line.ItemCode,
			ItemName:          line.ItemName,
			Unit:              line.Unit,
			Quantity:          line.Quantity,
			Rate:              line.Rate,
			Amount:            line.Amount,
			MovementType:      mc.Movement,
			TransactionType:   mc.TransactionType,
			TransactionID:     mc.TransactionID,
			TransactionNumber: mc.TransactionNumber,
			TransactionDate:   mc.TransactionDate,
			Account:           mc.Account,
			AccountName:       mc.AccountName,
			CreatedBy:         mc.CreatedBy,
		})
	}
	return entries, nil
}

// SignedQuantity returns the quantity with sign based on movement type
func (e *LedgerEntry) SignedQuantity() decimal.Decimal {
	if e.MovementType == MovementOut {
		return e.Quantity.Neg()
	}
	return e.Quantity
}
