package adjustment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockbook/backend/internal/domain/shared"
)

func newTestLine(qty, rate float64) Line {
	return Line{
		BaseEntity: shared.NewBaseEntity(),
		ItemID:     uuid.New(),
		ItemCode:   "ITEM1",
		ItemName:   "Test Item",
		Unit:       "pcs",
		Quantity:   decimal.NewFromFloat(qty),
		Rate:       decimal.NewFromFloat(rate),
	}
}

func TestNew(t *testing.T) {
	companyID := uuid.New()
	branchID := uuid.New()
	actorID := uuid.New()

	t.Run("creates completed adjustment with derived amounts", func(t *testing.T) {
		adj, err := New(companyID, branchID, TypeAdd, time.Now(), "REF-1", "found extra stock",
			[]Line{newTestLine(10, 5), newTestLine(2, 3)}, actorID)
		require.NoError(t, err)

		assert.Equal(t, StatusCompleted, adj.Status)
		assert.Equal(t, companyID, adj.CompanyID)
		assert.Equal(t, branchID, adj.BranchID)
		assert.Equal(t, actorID, adj.CreatedBy)
		assert.False(t, adj.Reverted)
		assert.Empty(t, adj.AdjustmentNumber)
		assert.True(t, adj.TotalAmount.Equal(decimal.NewFromInt(56)), "total = %s", adj.TotalAmount)
	})

	t.Run("requires company branch type and at least one line", func(t *testing.T) {
		_, err := New(uuid.Nil, branchID, TypeAdd, time.Now(), "", "", []Line{newTestLine(1, 1)}, actorID)
		assert.Error(t, err)

		_, err = New(companyID, uuid.Nil, TypeAdd, time.Now(), "", "", []Line{newTestLine(1, 1)}, actorID)
		assert.Error(t, err)

		_, err = New(companyID, branchID, "upsert", time.Now(), "", "", []Line{newTestLine(1, 1)}, actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidAdjustmentType)

		_, err = New(companyID, branchID, TypeAdd, time.Now(), "", "", nil, actorID)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity and negative rate", func(t *testing.T) {
		_, err := New(companyID, branchID, TypeAdd, time.Now(), "", "", []Line{newTestLine(0, 5)}, actorID)
		assert.Error(t, err)

		_, err = New(companyID, branchID, TypeAdd, time.Now(), "", "", []Line{newTestLine(5, -1)}, actorID)
		assert.Error(t, err)
	})
}

func TestRecalculateAmounts(t *testing.T) {
	t.Run("never trusts input amounts", func(t *testing.T) {
		line := newTestLine(4, 2.5)
		line.Amount = decimal.NewFromInt(9999)
		line.TaxAmount = decimal.NewFromInt(7)

		adj, err := New(uuid.New(), uuid.New(), TypeRemove, time.Now(), "", "", []Line{line}, uuid.New())
		require.NoError(t, err)

		got := adj.Lines[0]
		assert.True(t, got.Amount.Equal(decimal.NewFromInt(10)))
		assert.True(t, got.BaseAmount.Equal(got.Amount))
		assert.True(t, got.AmountAfterTax.Equal(got.Amount))
		assert.True(t, got.TaxRate.IsZero())
		assert.True(t, got.TaxAmount.IsZero())
		assert.True(t, adj.TotalAmount.Equal(decimal.NewFromInt(10)))
	})

	t.Run("total equals sum of line amounts", func(t *testing.T) {
		adj, err := New(uuid.New(), uuid.New(), TypeAdd, time.Now(), "", "",
			[]Line{newTestLine(1, 1.25), newTestLine(3, 0.4), newTestLine(7, 2)}, uuid.New())
		require.NoError(t, err)

		sum := decimal.Zero
		for _, l := range adj.Lines {
			sum = sum.Add(l.Amount)
		}
		assert.True(t, adj.TotalAmount.Equal(sum))
	})
}

func TestAssignNumber(t *testing.T) {
	adj, err := New(uuid.New(), uuid.New(), TypeAdd, time.Now(), "", "", []Line{newTestLine(1, 1)}, uuid.New())
	require.NoError(t, err)

	adj.AssignNumber("ADD-1A2B")
	assert.Equal(t, "ADD-1A2B", adj.AdjustmentNumber)

	// A second assignment must not overwrite the existing number.
	adj.AssignNumber("ADD-FFFF")
	assert.Equal(t, "ADD-1A2B", adj.AdjustmentNumber)

	assert.Equal(t, "REV-ADD-1A2B", adj.ReversalNumber())
}

func TestReplace(t *testing.T) {
	actorID := uuid.New()
	editorID := uuid.New()

	adj, err := New(uuid.New(), uuid.New(), TypeAdd, time.Now(), "REF-1", "initial",
		[]Line{newTestLine(10, 5)}, actorID)
	require.NoError(t, err)
	adj.AssignNumber("ADD-0001")
	require.NoError(t, adj.MarkReverted())

	t.Run("replaces content and preserves identity", func(t *testing.T) {
		newLines := []Line{newTestLine(4, 5)}
		err := adj.Replace(TypeAdd, time.Now(), "REF-2", "recount", newLines, editorID)
		require.NoError(t, err)

		assert.Equal(t, "ADD-0001", adj.AdjustmentNumber)
		assert.True(t, adj.TotalAmount.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, "REF-2", adj.Reference)
		require.NotNil(t, adj.UpdatedBy)
		assert.Equal(t, editorID, *adj.UpdatedBy)
		assert.False(t, adj.Reverted, "replace re-applies effects so the reverted flag resets")
	})

	t.Run("validates replacement lines", func(t *testing.T) {
		err := adj.Replace(TypeRemove, time.Now(), "", "", nil, editorID)
		assert.Error(t, err)

		err = adj.Replace("merge", time.Now(), "", "", []Line{newTestLine(1, 1)}, editorID)
		assert.ErrorIs(t, err, shared.ErrInvalidAdjustmentType)
	})
}

func TestMarkReverted(t *testing.T) {
	adj, err := New(uuid.New(), uuid.New(), TypeRemove, time.Now(), "", "",
		[]Line{newTestLine(5, 5)}, uuid.New())
	require.NoError(t, err)

	require.NoError(t, adj.MarkReverted())

	err = adj.MarkReverted()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestMovementLines(t *testing.T) {
	lines := []Line{newTestLine(10, 5), newTestLine(3, 2)}
	adj, err := New(uuid.New(), uuid.New(), TypeAdd, time.Now(), "", "", lines, uuid.New())
	require.NoError(t, err)

	moves := adj.MovementLines()
	require.Len(t, moves, 2)
	assert.Equal(t, adj.Lines[0].ItemID, moves[0].ItemID)
	assert.True(t, moves[0].Quantity.Equal(adj.Lines[0].Quantity))
	assert.True(t, moves[0].Amount.Equal(adj.Lines[0].Amount))
	assert.Equal(t, "pcs", moves[1].Unit)
}
