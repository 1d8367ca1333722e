package persistence

import (
	"context"

	"gorm.io/gorm"

	appadjustment "github.com/stockbook/backend/internal/application/adjustment"
	"github.com/stockbook/backend/internal/domain/adjustment"
	"github.com/stockbook/backend/internal/domain/stock"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appadjustment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Adjustments returns the adjustment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Adjustments() adjustment.Repository {
	return NewGormAdjustmentRepository(r.tx)
}

// StockLevels returns the stock level repository scoped to the current transaction.
func (r *gormTransactionalRepositories) StockLevels() stock.LevelRepository {
	return NewGormStockLevelRepository(r.tx)
}

// Ledger returns the stock ledger repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Ledger() stock.LedgerRepository {
	return NewGormStockLedgerRepository(r.tx)
}

// Balances returns the monthly balance repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Balances() stock.MonthlyBalanceRepository {
	return NewGormMonthlyBalanceRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appadjustment.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appadjustment.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
