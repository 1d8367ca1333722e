package adjustment

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockbook/backend/internal/domain/shared"
)

// Repository defines persistence for stock adjustments.
//
// Implementations must enforce a unique constraint on adjustment_number and
// surface a duplicate insert as shared.ErrAlreadyExists so the orchestrator
// can regenerate the number. Lookups that miss return shared.ErrNotFound.
type Repository interface {
	// Create persists a new adjustment together with its lines.
	Create(ctx context.Context, adj *StockAdjustment) error

	// FindByID loads an adjustment with its lines.
	FindByID(ctx context.Context, id uuid.UUID) (*StockAdjustment, error)

	// FindByNumber loads an adjustment by its unique number.
	FindByNumber(ctx context.Context, number string) (*StockAdjustment, error)

	// FindAll lists adjustments for a company/branch with paging. Filter
	// keys "adjustment_type", "start_date" and "end_date" are supported.
	FindAll(ctx context.Context, companyID, branchID uuid.UUID, filter shared.Filter) ([]StockAdjustment, error)

	// Count counts adjustments matching the filter.
	Count(ctx context.Context, companyID, branchID uuid.UUID, filter shared.Filter) (int64, error)

	// Save updates an existing adjustment in place, replacing its lines.
	Save(ctx context.Context, adj *StockAdjustment) error

	// Delete removes an adjustment and its lines.
	Delete(ctx context.Context, id uuid.UUID) error
}
