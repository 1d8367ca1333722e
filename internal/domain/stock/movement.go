package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction represents the direction a stock delta is applied in
type Direction string

const (
	// DirectionIn increases on-hand quantity
	DirectionIn Direction = "in"
	// DirectionOut decreases on-hand quantity
	DirectionOut Direction = "out"
)

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// IsValid returns true if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Inverse returns the opposite direction
func (d Direction) Inverse() Direction {
	if d == DirectionIn {
		return DirectionOut
	}
	return DirectionIn
}

// MovementType is the in/out tag recorded on ledger entries and monthly balances
type MovementType string

const (
	// MovementIn tags a stock increase
	MovementIn MovementType = "in"
	// MovementOut tags a stock decrease
	MovementOut MovementType = "out"
)

// String returns the string representation of MovementType
func (m MovementType) String() string {
	return string(m)
}

// IsValid returns true if the movement type is valid
func (m MovementType) IsValid() bool {
	return m == MovementIn || m == MovementOut
}

// Inverse returns the opposite movement type
func (m MovementType) Inverse() MovementType {
	if m == MovementIn {
		return MovementOut
	}
	return MovementIn
}

// TransactionType identifies the kind of source transaction behind a movement
type TransactionType string

const (
	// TransactionTypeStockAdjustment is a manual stock correction
	TransactionTypeStockAdjustment TransactionType = "stock_adjustment"
	// TransactionTypeStockAdjustmentReversal cancels a prior stock adjustment
	TransactionTypeStockAdjustmentReversal TransactionType = "stock_adjustment_reversal"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// MovementLine is the per-item payload of a stock movement.
// Quantity is always positive; the direction/movement carries the sign.
type MovementLine struct {
	ItemID   uuid.UUID
	ItemCode string
	ItemName string
	Unit     string
	Quantity decimal.Decimal
	Rate     decimal.Decimal
	Amount   decimal.Decimal
}

// MovementContext carries everything the ledger and monthly balance
// collaborators need to record one movement across a set of lines.
type MovementContext struct {
	CompanyID         uuid.UUID
	BranchID          uuid.UUID
	Lines             []MovementLine
	TransactionID     uuid.UUID
	TransactionNumber string
	TransactionDate   time.Time
	TransactionType   TransactionType
	Movement          MovementType
	Account           string
	AccountName       string
	CreatedBy         uuid.UUID
}
