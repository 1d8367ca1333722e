package adjustment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockbook/backend/internal/domain/shared"
	"github.com/stockbook/backend/internal/domain/stock"
)

// Type represents the kind of manual stock correction
type Type string

const (
	// TypeAdd increases on-hand stock
	TypeAdd Type = "add"
	// TypeRemove decreases on-hand stock
	TypeRemove Type = "remove"
)

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the adjustment type is valid
func (t Type) IsValid() bool {
	return t == TypeAdd || t == TypeRemove
}

// Status represents the lifecycle state of a stock adjustment
type Status string

const (
	// StatusDraft is reserved for adjustments not yet applied
	StatusDraft Status = "draft"
	// StatusCompleted is the state produced by the create workflow
	StatusCompleted Status = "completed"
	// StatusCancelled is reserved for adjustments voided outside the core flow
	StatusCancelled Status = "cancelled"
)

// Line is one item row of a stock adjustment. Amount fields are always
// derived from quantity and rate; tax fields are zero placeholders until
// tax computation exists.
type Line struct {
	shared.BaseEntity
	AdjustmentID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_adjustment_line_adj"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_adjustment_line_item"`
	ItemCode       string          `gorm:"type:varchar(50)"`
	ItemName       string          `gorm:"type:varchar(255)"`
	Unit           string          `gorm:"type:varchar(30)"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BaseAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountAfterTax decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Remarks        string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "stock_adjustment_lines"
}

// StockAdjustment is the persisted result of one manual stock correction.
// Company and branch are set once at creation and never change; the
// adjustment number is unique across the system once assigned.
type StockAdjustment struct {
	shared.BaseEntity
	CompanyID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_adj_date,priority:1;index:idx_stock_adj_type,priority:1"`
	BranchID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_adj_date,priority:2;index:idx_stock_adj_type,priority:2"`
	AdjustmentNumber string          `gorm:"type:varchar(50);uniqueIndex:idx_stock_adj_number"`
	AdjustmentDate   time.Time       `gorm:"not null;index:idx_stock_adj_date,priority:3"`
	AdjustmentType   Type            `gorm:"type:varchar(10);not null;index:idx_stock_adj_type,priority:3"`
	Reference        string          `gorm:"type:varchar(100)"`
	Reason           string          `gorm:"type:varchar(255)"`
	Lines            []Line          `gorm:"foreignKey:AdjustmentID;references:ID"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status           Status          `gorm:"type:varchar(20);not null"`
	Reverted         bool            `gorm:"not null;default:false"`
	CreatedBy        uuid.UUID       `gorm:"type:uuid;not null"`
	UpdatedBy        *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

// New creates a stock adjustment in completed state with derived amounts.
// The adjustment number is left empty; the orchestrator assigns it before
// persisting unless the caller supplied one.
func New(companyID, branchID uuid.UUID, t Type, date time.Time, reference, reason string, lines []Line, createdBy uuid.UUID) (*StockAdjustment, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Company is required")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Branch is required")
	}
	if !t.IsValid() {
		return nil, shared.ErrInvalidAdjustmentType
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("VALIDATION", "At least one item is required")
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	adj := &StockAdjustment{
		BaseEntity:     shared.NewBaseEntity(),
		CompanyID:      companyID,
		BranchID:       branchID,
		AdjustmentDate: date,
		AdjustmentType: t,
		Reference:      reference,
		Reason:         reason,
		Lines:          lines,
		Status:         StatusCompleted,
		CreatedBy:      createdBy,
	}
	adj.RecalculateAmounts()
	return adj, nil
}

// validateLines enforces per-line invariants: quantity > 0, rate >= 0
func validateLines(lines []Line) error {
	for i := range lines {
		if lines[i].ItemID == uuid.Nil {
			return shared.NewDomainError("VALIDATION", "Line item is required")
		}
		if !lines[i].Quantity.IsPositive() {
			return shared.NewDomainError("VALIDATION", "Line quantity must be positive")
		}
		if lines[i].Rate.IsNegative() {
			return shared.NewDomainError("VALIDATION", "Line rate cannot be negative")
		}
	}
	return nil
}

// RecalculateAmounts derives every amount field from quantity and rate.
// Input amounts are never trusted: amount = quantity * rate, base and
// after-tax amounts mirror it, tax stays zero, and the total is the sum
// of line amounts.
func (a *StockAdjustment) RecalculateAmounts() {
	total := decimal.Zero
	for i := range a.Lines {
		line := &a.Lines[i]
		line.AdjustmentID = a.ID
		line.Amount = line.Quantity.Mul(line.Rate)
		line.BaseAmount = line.Amount
		line.AmountAfterTax = line.Amount
		line.TaxRate = decimal.Zero
		line.TaxAmount = decimal.Zero
		total = total.Add(line.Amount)
	}
	a.TotalAmount = total
}

// AssignNumber sets the adjustment number if not already assigned
func (a *StockAdjustment) AssignNumber(number string) {
	if a.AdjustmentNumber == "" {
		a.AdjustmentNumber = number
	}
}

// Replace swaps type, date, reference, reason and lines on an existing
// adjustment while preserving identity, number, company and branch. Used
// by the edit workflow after the prior effects were reverted.
func (a *StockAdjustment) Replace(t Type, date time.Time, reference, reason string, lines []Line, updatedBy uuid.UUID) error {
	if !t.IsValid() {
		return shared.ErrInvalidAdjustmentType
	}
	if len(lines) == 0 {
		return shared.NewDomainError("VALIDATION", "At least one item is required")
	}
	if err := validateLines(lines); err != nil {
		return err
	}
	if date.IsZero() {
		date = a.AdjustmentDate
	}

	a.AdjustmentType = t
	a.AdjustmentDate = date
	a.Reference = reference
	a.Reason = reason
	a.Lines = lines
	a.UpdatedBy = &updatedBy
	a.UpdatedAt = time.Now()
	a.Reverted = false
	a.RecalculateAmounts()
	return nil
}

// MarkReverted records that this adjustment's effects have been cancelled.
// Reverting twice would double-apply the inverse stock delta, so a second
// call fails with INVALID_STATE.
func (a *StockAdjustment) MarkReverted() error {
	if a.Reverted {
		return shared.NewDomainError("INVALID_STATE", "Adjustment has already been reverted")
	}
	a.Reverted = true
	return nil
}

// MovementLines converts the adjustment lines into the payload the stock
// collaborators consume
func (a *StockAdjustment) MovementLines() []stock.MovementLine {
	lines := make([]stock.MovementLine, 0, len(a.Lines))
	for i := range a.Lines {
		l := &a.Lines[i]
		lines = append(lines, stock.MovementLine{
			ItemID:   l.ItemID,
			ItemCode: l.ItemCode,
			ItemName: l.ItemName,
			Unit:     l.Unit,
			Quantity: l.Quantity,
			Rate:     l.Rate,
			Amount:   l.Amount,
		})
	}
	return lines
}

// ReversalNumber returns the reference used on reversing ledger entries
func (a *StockAdjustment) ReversalNumber() string {
	return "REV-" + a.AdjustmentNumber
}
