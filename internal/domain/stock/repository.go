package stock

import (
	"context"

	"github.com/google/uuid"
)

// LevelRepository applies signed quantity deltas to on-hand stock.
//
// ApplyDelta must be an atomic conditional increment/decrement scoped to
// each (item, branch) row, not a read-modify-write: two concurrent "out"
// deltas that would jointly overdraw stock must have at least one fail
// with shared.ErrInsufficientStock after observing the post-delta value.
type LevelRepository interface {
	// ApplyDelta applies each line's quantity to its (item, branch) on-hand
	// level in the given direction. An "out" delta that would take any item
	// below zero fails with shared.ErrInsufficientStock and applies nothing
	// outside the surrounding transaction scope.
	ApplyDelta(ctx context.Context, companyID, branchID uuid.UUID, lines []MovementLine, direction Direction) error

	// FindByItem returns the stock level for one (company, branch, item),
	// or shared.ErrNotFound if no row exists yet.
	FindByItem(ctx context.Context, companyID, branchID, itemID uuid.UUID) (*Level, error)
}

// LedgerRepository appends immutable audit entries. There are deliberately
// no update or delete operations: the ledger is a permanent trail.
type LedgerRepository interface {
	// Append persists the given entries in order.
	Append(ctx context.Context, entries []LedgerEntry) error

	// FindByTransaction returns all entries linked to a transaction id.
	FindByTransaction(ctx context.Context, transactionID uuid.UUID) ([]LedgerEntry, error)

	// FindByTransactionNumber returns all entries linked to a transaction
	// number (including "REV-" reversal references).
	FindByTransactionNumber(ctx context.Context, transactionNumber string) ([]LedgerEntry, error)
}

// MonthlyBalanceRepository accumulates per-item/branch/month running totals.
type MonthlyBalanceRepository interface {
	// ApplyDelta adds each line's quantity and amount to the month bucket of
	// the context's transaction date, on the in or out side per the
	// context's movement type. Buckets are created on first use.
	ApplyDelta(ctx context.Context, mc MovementContext) error

	// FindByMonth returns the bucket for one (company, branch, item, year,
	// month), or shared.ErrNotFound if nothing has been recorded.
	FindByMonth(ctx context.Context, companyID, branchID, itemID uuid.UUID, year, month int) (*MonthlyBalance, error)
}
