package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockbook/backend/internal/domain/stock"
)

// GormStockLedgerRepository implements stock.LedgerRepository using GORM.
// The ledger is append-only: no update or delete methods exist, and
// reversal entries are added rather than originals removed.
type GormStockLedgerRepository struct {
	db *gorm.DB
}

// NewGormStockLedgerRepository creates a new GormStockLedgerRepository
func NewGormStockLedgerRepository(db *gorm.DB) *GormStockLedgerRepository {
	return &GormStockLedgerRepository{db: db}
}

// Append writes the given ledger entries
func (r *GormStockLedgerRepository) Append(ctx context.Context, entries []stock.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

// FindByTransaction finds all entries recorded for one transaction ID
func (r *GormStockLedgerRepository) FindByTransaction(ctx context.Context, transactionID uuid.UUID) ([]stock.LedgerEntry, error) {
	var entries []stock.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByTransactionNumber finds all entries carrying the given
// transaction number, reversal entries included
func (r *GormStockLedgerRepository) FindByTransactionNumber(ctx context.Context, number string) ([]stock.LedgerEntry, error) {
	var entries []stock.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("transaction_number = ?", number).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormStockLedgerRepository implements stock.LedgerRepository
var _ stock.LedgerRepository = (*GormStockLedgerRepository)(nil)
