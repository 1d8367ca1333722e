package adjustment

import (
	"github.com/stockbook/backend/internal/domain/shared"
	"github.com/stockbook/backend/internal/domain/stock"
)

// Behavior is the resolved effect of an adjustment type: which direction
// the stock delta is applied in and which movement type the ledger and
// monthly balances are tagged with.
type Behavior struct {
	Direction stock.Direction
	Movement  stock.MovementType
}

// Inverse returns the behavior that cancels this one
func (b Behavior) Inverse() Behavior {
	return Behavior{
		Direction: b.Direction.Inverse(),
		Movement:  b.Movement.Inverse(),
	}
}

// ResolveBehavior maps an adjustment type to its stock behavior.
// add -> {in, in}; remove -> {out, out}. Any other value fails with
// shared.ErrInvalidAdjustmentType. Pure, no side effects.
func ResolveBehavior(t Type) (Behavior, error) {
	switch t {
	case TypeAdd:
		return Behavior{Direction: stock.DirectionIn, Movement: stock.MovementIn}, nil
	case TypeRemove:
		return Behavior{Direction: stock.DirectionOut, Movement: stock.MovementOut}, nil
	default:
		return Behavior{}, shared.ErrInvalidAdjustmentType
	}
}
