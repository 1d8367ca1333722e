package adjustment

import (
	"context"

	"github.com/stockbook/backend/internal/domain/adjustment"
	"github.com/stockbook/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the four stores the
// adjustment workflows touch. When a function is executed within a
// transaction scope, all repository operations are part of the same
// database transaction and are committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all adjustment-related
// repositories within a transaction. All repositories returned share the
// same underlying database transaction, which is what keeps the
// adjustment record, stock levels, ledger and monthly balances mutually
// consistent: either every step of a workflow commits or none do.
type TransactionalRepositories interface {
	// Adjustments returns the stock adjustment repository scoped to the current transaction
	Adjustments() adjustment.Repository
	// StockLevels returns the stock level repository scoped to the current transaction
	StockLevels() stock.LevelRepository
	// Ledger returns the stock ledger repository scoped to the current transaction
	Ledger() stock.LedgerRepository
	// Balances returns the monthly balance repository scoped to the current transaction
	Balances() stock.MonthlyBalanceRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	adjustmentRepo adjustment.Repository
	levelRepo      stock.LevelRepository
	ledgerRepo     stock.LedgerRepository
	balanceRepo    stock.MonthlyBalanceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	adjustmentRepo adjustment.Repository,
	levelRepo stock.LevelRepository,
	ledgerRepo stock.LedgerRepository,
	balanceRepo stock.MonthlyBalanceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		adjustmentRepo: adjustmentRepo,
		levelRepo:      levelRepo,
		ledgerRepo:     ledgerRepo,
		balanceRepo:    balanceRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Adjustments returns the stock adjustment repository.
func (s *NoOpTransactionScope) Adjustments() adjustment.Repository {
	return s.adjustmentRepo
}

// StockLevels returns the stock level repository.
func (s *NoOpTransactionScope) StockLevels() stock.LevelRepository {
	return s.levelRepo
}

// Ledger returns the stock ledger repository.
func (s *NoOpTransactionScope) Ledger() stock.LedgerRepository {
	return s.ledgerRepo
}

// Balances returns the monthly balance repository.
func (s *NoOpTransactionScope) Balances() stock.MonthlyBalanceRepository {
	return s.balanceRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
