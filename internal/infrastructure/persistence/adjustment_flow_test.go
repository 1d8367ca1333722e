package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appadjustment "github.com/stockbook/backend/internal/application/adjustment"
	"github.com/stockbook/backend/internal/domain/adjustment"
	"github.com/stockbook/backend/internal/domain/shared"
	"github.com/stockbook/backend/internal/domain/stock"
)

// setupAdjustmentFlowDB builds an in-memory database with the full
// adjustment schema and a service wired through real transactions.
func setupAdjustmentFlowDB(t *testing.T) (*gorm.DB, *appadjustment.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&adjustment.StockAdjustment{},
		&adjustment.Line{},
		&stock.Level{},
		&stock.LedgerEntry{},
		&stock.MonthlyBalance{},
	)
	require.NoError(t, err)

	scope := NewGormTransactionScope(db)
	return db, appadjustment.NewService(scope)
}

func flowRequest(companyID, branchID, itemID uuid.UUID, adjType string, qty, rate int64) appadjustment.AdjustmentRequest {
	return appadjustment.AdjustmentRequest{
		CompanyID:      companyID,
		BranchID:       branchID,
		AdjustmentType: adjType,
		AdjustmentDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Reason:         "integration flow",
		Items: []appadjustment.ItemInput{{
			ItemID:   itemID,
			ItemCode: "ITEM1",
			ItemName: "Widget",
			Unit:     "pcs",
			Quantity: decimal.NewFromInt(qty),
			Rate:     decimal.NewFromInt(rate),
		}},
	}
}

func flowOnHand(t *testing.T, db *gorm.DB, companyID, branchID, itemID uuid.UUID) decimal.Decimal {
	t.Helper()
	var level stock.Level
	err := db.Where("company_id = ? AND branch_id = ? AND item_id = ?", companyID, branchID, itemID).
		First(&level).Error
	if err == gorm.ErrRecordNotFound {
		return decimal.Zero
	}
	require.NoError(t, err)
	return level.OnHand
}

func TestAdjustmentFlow_CreateThroughRealTransactions(t *testing.T) {
	db, service := setupAdjustmentFlowDB(t)
	ctx := context.Background()

	companyID, branchID, itemID := uuid.New(), uuid.New(), uuid.New()
	actorID := uuid.New()

	result, err := service.Create(ctx, flowRequest(companyID, branchID, itemID, "add", 10, 5), actorID)
	require.NoError(t, err)

	assert.True(t, result.Adjustment.TotalAmount.Equal(decimal.NewFromInt(50)))
	assert.NotEmpty(t, result.Adjustment.AdjustmentNumber)

	// Level row was upserted inside the transaction.
	assert.True(t, flowOnHand(t, db, companyID, branchID, itemID).Equal(decimal.NewFromInt(10)))

	// One ledger entry, one monthly balance bucket.
	var ledgerCount, balanceCount int64
	require.NoError(t, db.Model(&stock.LedgerEntry{}).Count(&ledgerCount).Error)
	require.NoError(t, db.Model(&stock.MonthlyBalance{}).Count(&balanceCount).Error)
	assert.Equal(t, int64(1), ledgerCount)
	assert.Equal(t, int64(1), balanceCount)

	var balance stock.MonthlyBalance
	require.NoError(t, db.First(&balance).Error)
	assert.Equal(t, 2026, balance.Year)
	assert.Equal(t, 6, balance.Month)
	assert.True(t, balance.InQuantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, balance.InAmount.Equal(decimal.NewFromInt(50)))
}

func TestAdjustmentFlow_InsufficientStockRollsBack(t *testing.T) {
	db, service := setupAdjustmentFlowDB(t)
	ctx := context.Background()

	companyID, branchID, itemID := uuid.New(), uuid.New(), uuid.New()
	actorID := uuid.New()

	// Seed 3 on hand.
	_, err := service.Create(ctx, flowRequest(companyID, branchID, itemID, "add", 3, 5), actorID)
	require.NoError(t, err)

	_, err = service.Create(ctx, flowRequest(companyID, branchID, itemID, "remove", 5, 5), actorID)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	// Nothing from the failed removal persisted.
	assert.True(t, flowOnHand(t, db, companyID, branchID, itemID).Equal(decimal.NewFromInt(3)))

	var adjCount, ledgerCount int64
	require.NoError(t, db.Model(&adjustment.StockAdjustment{}).Count(&adjCount).Error)
	require.NoError(t, db.Model(&stock.LedgerEntry{}).Count(&ledgerCount).Error)
	assert.Equal(t, int64(1), adjCount)
	assert.Equal(t, int64(1), ledgerCount)
}

func TestAdjustmentFlow_EditRewritesEffects(t *testing.T) {
	db, service := setupAdjustmentFlowDB(t)
	ctx := context.Background()

	companyID, branchID, itemID := uuid.New(), uuid.New(), uuid.New()
	actorID := uuid.New()

	created, err := service.Create(ctx, flowRequest(companyID, branchID, itemID, "add", 10, 5), actorID)
	require.NoError(t, err)

	edited, err := service.Edit(ctx, created.Adjustment.ID, flowRequest(companyID, branchID, itemID, "add", 4, 5), actorID)
	require.NoError(t, err)

	assert.Equal(t, created.Adjustment.AdjustmentNumber, edited.Adjustment.AdjustmentNumber)
	assert.True(t, flowOnHand(t, db, companyID, branchID, itemID).Equal(decimal.NewFromInt(4)))

	// The old line set was replaced, not accumulated.
	var lineCount int64
	require.NoError(t, db.Model(&adjustment.Line{}).Count(&lineCount).Error)
	assert.Equal(t, int64(1), lineCount)

	// Ledger keeps the full history: create, reversal, re-creation.
	var ledgerCount int64
	require.NoError(t, db.Model(&stock.LedgerEntry{}).Count(&ledgerCount).Error)
	assert.Equal(t, int64(3), ledgerCount)

	var reversal stock.LedgerEntry
	require.NoError(t, db.Where("transaction_type = ?", stock.TransactionTypeStockAdjustmentReversal).
		First(&reversal).Error)
	assert.Equal(t, "REV-"+created.Adjustment.AdjustmentNumber, reversal.TransactionNumber)
	assert.Equal(t, stock.MovementOut, reversal.MovementType)
}

func TestAdjustmentFlow_DeleteRestoresStockAndKeepsLedger(t *testing.T) {
	db, service := setupAdjustmentFlowDB(t)
	ctx := context.Background()

	companyID, branchID, itemID := uuid.New(), uuid.New(), uuid.New()
	actorID := uuid.New()

	// Seed 12 on hand, then remove 5.
	_, err := service.Create(ctx, flowRequest(companyID, branchID, itemID, "add", 12, 5), actorID)
	require.NoError(t, err)
	removed, err := service.Create(ctx, flowRequest(companyID, branchID, itemID, "remove", 5, 5), actorID)
	require.NoError(t, err)
	require.True(t, flowOnHand(t, db, companyID, branchID, itemID).Equal(decimal.NewFromInt(7)))

	require.NoError(t, service.Delete(ctx, removed.Adjustment.ID, actorID))

	assert.True(t, flowOnHand(t, db, companyID, branchID, itemID).Equal(decimal.NewFromInt(12)))

	// Record and lines are gone.
	_, err = service.GetByID(ctx, removed.Adjustment.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	var lineCount int64
	require.NoError(t, db.Model(&adjustment.Line{}).
		Where("adjustment_id = ?", removed.Adjustment.ID).
		Count(&lineCount).Error)
	assert.Zero(t, lineCount)

	// The reversal entry stays behind as the audit trail.
	var reversalCount int64
	require.NoError(t, db.Model(&stock.LedgerEntry{}).
		Where("transaction_number = ?", "REV-"+removed.Adjustment.AdjustmentNumber).
		Count(&reversalCount).Error)
	assert.Equal(t, int64(1), reversalCount)
}

func TestAdjustmentFlow_DuplicateSuppliedNumberRollsBack(t *testing.T) {
	db, service := setupAdjustmentFlowDB(t)
	ctx := context.Background()

	companyID, branchID, itemID := uuid.New(), uuid.New(), uuid.New()
	actorID := uuid.New()

	req := flowRequest(companyID, branchID, itemID, "add", 2, 1)
	req.AdjustmentNumber = "ADD-SEED"
	_, err := service.Create(ctx, req, actorID)
	require.NoError(t, err)

	_, err = service.Create(ctx, req, actorID)
	require.ErrorIs(t, err, shared.ErrAlreadyExists)

	// The conflicting create's stock delta was rolled back with it.
	assert.True(t, flowOnHand(t, db, companyID, branchID, itemID).Equal(decimal.NewFromInt(2)))
}

func TestAdjustmentFlow_ListAndGet(t *testing.T) {
	_, service := setupAdjustmentFlowDB(t)
	ctx := context.Background()

	companyID, branchID := uuid.New(), uuid.New()
	actorID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := service.Create(ctx, flowRequest(companyID, branchID, uuid.New(), "add", 1, 1), actorID)
		require.NoError(t, err)
	}

	responses, total, err := service.List(ctx, companyID, branchID, appadjustment.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, responses, 3)

	got, err := service.GetByID(ctx, responses[0].ID)
	require.NoError(t, err)
	assert.Equal(t, responses[0].AdjustmentNumber, got.AdjustmentNumber)

	// Filter by type excludes everything when no removals exist.
	responses, total, err = service.List(ctx, companyID, branchID, appadjustment.ListFilter{AdjustmentType: "remove"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, responses)
}
