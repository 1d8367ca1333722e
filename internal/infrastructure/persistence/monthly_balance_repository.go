package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockbook/backend/internal/domain/shared"
	"github.com/stockbook/backend/internal/domain/stock"
)

// GormMonthlyBalanceRepository implements stock.MonthlyBalanceRepository
// using GORM
type GormMonthlyBalanceRepository struct {
	db *gorm.DB
}

// NewGormMonthlyBalanceRepository creates a new GormMonthlyBalanceRepository
func NewGormMonthlyBalanceRepository(db *gorm.DB) *GormMonthlyBalanceRepository {
	return &GormMonthlyBalanceRepository{db: db}
}

// ApplyDelta accumulates the movement's quantities and amounts into the
// month bucket of the transaction date, one upsert per line. Reversals
// land on the opposite side of the same bucket rather than subtracting,
// so the in/out columns stay monotonic.
func (r *GormMonthlyBalanceRepository) ApplyDelta(ctx context.Context, mc stock.MovementContext) error {
	year, month := mc.TransactionDate.Year(), int(mc.TransactionDate.Month())

	for i := range mc.Lines {
		line := &mc.Lines[i]

		balance := &stock.MonthlyBalance{
			BaseEntity: shared.NewBaseEntity(),
			CompanyID:  mc.CompanyID,
			BranchID:   mc.BranchID,
			ItemID:     line.ItemID,
			Year:       year,
			Month:      month,
		}

		var assignments map[string]interface{}
		if mc.Movement == stock.MovementIn {
			balance.InQuantity = line.Quantity
			balance.InAmount = line.Amount
			assignments = map[string]interface{}{
				"in_quantity": gorm.Expr("stock_monthly_balances.in_quantity + ?", line.Quantity),
				"in_amount":   gorm.Expr("stock_monthly_balances.in_amount + ?", line.Amount),
				"updated_at":  time.Now(),
			}
		} else {
			balance.OutQuantity = line.Quantity
			balance.OutAmount = line.Amount
			assignments = map[string]interface{}{
				"out_quantity": gorm.Expr("stock_monthly_balances.out_quantity + ?", line.Quantity),
				"out_amount":   gorm.Expr("stock_monthly_balances.out_amount + ?", line.Amount),
				"updated_at":   time.Now(),
			}
		}

		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "company_id"}, {Name: "branch_id"}, {Name: "item_id"},
					{Name: "year"}, {Name: "month"},
				},
				DoUpdates: clause.Assignments(assignments),
			}).
			Create(balance).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByMonth finds the balance bucket for one item and month
func (r *GormMonthlyBalanceRepository) FindByMonth(ctx context.Context, companyID, branchID, itemID uuid.UUID, year, month int) (*stock.MonthlyBalance, error) {
	var balance stock.MonthlyBalance
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND branch_id = ? AND item_id = ? AND year = ? AND month = ?",
			companyID, branchID, itemID, year, month).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// SumNetQuantity sums net movement quantity for an item across all
// buckets up to and including the given month
func (r *GormMonthlyBalanceRepository) SumNetQuantity(ctx context.Context, companyID, branchID, itemID uuid.UUID, year, month int) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&stock.MonthlyBalance{}).
		Select("COALESCE(SUM(in_quantity - out_quantity), 0) as total").
		Where("company_id = ? AND branch_id = ? AND item_id = ? AND (year < ? OR (year = ? AND month <= ?))",
			companyID, branchID, itemID, year, year, month).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Ensure GormMonthlyBalanceRepository implements stock.MonthlyBalanceRepository
var _ stock.MonthlyBalanceRepository = (*GormMonthlyBalanceRepository)(nil)
