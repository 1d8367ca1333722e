package adjustment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/stockbook/backend/internal/domain/adjustment"
	"github.com/stockbook/backend/internal/domain/shared"
	"github.com/stockbook/backend/internal/domain/stock"
)

const (
	// adjustmentAccount is the ledger account stock adjustments post to
	adjustmentAccount = "stock-adjustment"
	// adjustmentAccountName is the display name of the ledger account
	adjustmentAccountName = "Stock Adjustment"
)

// Service orchestrates the stock adjustment workflows. Every workflow runs
// inside one transaction scope spanning the adjustment store, the stock
// levels, the ledger and the monthly balances: a failure in any step rolls
// back all four.
type Service struct {
	scope TransactionScope
}

// NewService creates a new adjustment Service
func NewService(scope TransactionScope) *Service {
	return &Service{scope: scope}
}

// Create applies a manual stock correction: it mutates on-hand stock in
// the resolved direction, persists the adjustment record with derived
// totals and a unique number, appends one ledger entry per line and rolls
// the movement into the monthly balances.
func (s *Service) Create(ctx context.Context, req AdjustmentRequest, actorID uuid.UUID) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	behavior, err := adjustment.ResolveBehavior(adjustment.Type(req.AdjustmentType))
	if err != nil {
		return nil, err
	}

	var result *Result
	run := func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			adj, entries, err := s.apply(ctx, repos, req, behavior, actorID)
			if err != nil {
				return err
			}
			result = &Result{
				Adjustment:    ToAdjustmentResponse(adj),
				LedgerEntries: entries,
			}
			return nil
		})
	}

	err = run()
	// The 4-character token can collide. The failed transaction has been
	// rolled back by then, so the retry restarts the whole scope with a
	// fresh token. A caller-supplied duplicate is a real conflict and is
	// surfaced as-is.
	if req.AdjustmentNumber == "" && errors.Is(err, shared.ErrAlreadyExists) {
		err = run()
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// apply runs the create steps against transactional repositories. Any
// error leaves the transaction to be rolled back by the scope; retries
// happen from outside, on a clean transaction.
func (s *Service) apply(ctx context.Context, repos TransactionalRepositories, req AdjustmentRequest, behavior adjustment.Behavior, actorID uuid.UUID) (*adjustment.StockAdjustment, []stock.LedgerEntry, error) {
	adj, err := adjustment.New(
		req.CompanyID,
		req.BranchID,
		adjustment.Type(req.AdjustmentType),
		req.AdjustmentDate,
		req.Reference,
		req.Reason,
		req.lines(),
		actorID,
	)
	if err != nil {
		return nil, nil, err
	}

	if err := repos.StockLevels().ApplyDelta(ctx, adj.CompanyID, adj.BranchID, adj.MovementLines(), behavior.Direction); err != nil {
		return nil, nil, err
	}

	if req.AdjustmentNumber == "" {
		adj.AssignNumber(adjustment.GenerateNumber(adj.AdjustmentType))
	} else {
		adj.AssignNumber(req.AdjustmentNumber)
	}

	if err := repos.Adjustments().Create(ctx, adj); err != nil {
		return nil, nil, err
	}

	entries, err := s.recordMovement(ctx, repos, adj, adj.AdjustmentNumber, stock.TransactionTypeStockAdjustment, behavior.Movement, actorID)
	if err != nil {
		return nil, nil, err
	}
	return adj, entries, nil
}

// Edit replaces an adjustment's type, date, reference, reason and items.
// Company and branch are immutable: a request that changes either fails
// with FORBIDDEN. The prior effects are reverted and the new ones applied
// in the same scope; the original number is kept and the record is
// mutated in place.
func (s *Service) Edit(ctx context.Context, id uuid.UUID, req AdjustmentRequest, actorID uuid.UUID) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	behavior, err := adjustment.ResolveBehavior(adjustment.Type(req.AdjustmentType))
	if err != nil {
		return nil, err
	}

	var result *Result
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		adj, err := repos.Adjustments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if adj.CompanyID != req.CompanyID || adj.BranchID != req.BranchID {
			return shared.ErrForbidden
		}

		if _, err := s.revert(ctx, repos, adj, actorID); err != nil {
			return err
		}

		if err := adj.Replace(
			adjustment.Type(req.AdjustmentType),
			req.AdjustmentDate,
			req.Reference,
			req.Reason,
			req.lines(),
			actorID,
		); err != nil {
			return err
		}

		if err := repos.StockLevels().ApplyDelta(ctx, adj.CompanyID, adj.BranchID, adj.MovementLines(), behavior.Direction); err != nil {
			return err
		}
		if err := repos.Adjustments().Save(ctx, adj); err != nil {
			return err
		}

		entries, err := s.recordMovement(ctx, repos, adj, adj.AdjustmentNumber, stock.TransactionTypeStockAdjustment, behavior.Movement, actorID)
		if err != nil {
			return err
		}
		result = &Result{
			Adjustment:    ToAdjustmentResponse(adj),
			LedgerEntries: entries,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete reverts an adjustment's effects and removes the record. The
// ledger and monthly balance rows, including the reversal entries, are
// retained as a permanent audit trail.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		adj, err := repos.Adjustments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.revert(ctx, repos, adj, actorID); err != nil {
			return err
		}
		return repos.Adjustments().Delete(ctx, adj.ID)
	})
}

// revert cancels an adjustment's prior effects: the inverse stock delta is
// applied to the original lines (which already carry their derived
// amounts), reversing ledger entries referencing "REV-{number}" are
// appended and the inverse movement is rolled into the monthly balances.
//
// revert is deliberately not exposed on its own; it runs at most once per
// record thanks to the reverted state the aggregate tracks.
func (s *Service) revert(ctx context.Context, repos TransactionalRepositories, adj *adjustment.StockAdjustment, actorID uuid.UUID) ([]stock.LedgerEntry, error) {
	if err := adj.MarkReverted(); err != nil {
		return nil, err
	}

	behavior, err := adjustment.ResolveBehavior(adj.AdjustmentType)
	if err != nil {
		return nil, err
	}
	inverse := behavior.Inverse()

	if err := repos.StockLevels().ApplyDelta(ctx, adj.CompanyID, adj.BranchID, adj.MovementLines(), inverse.Direction); err != nil {
		return nil, err
	}

	return s.recordMovement(ctx, repos, adj, adj.ReversalNumber(), stock.TransactionTypeStockAdjustmentReversal, inverse.Movement, actorID)
}

// recordMovement appends ledger entries and accumulates monthly balances
// for one movement over the adjustment's lines
func (s *Service) recordMovement(ctx context.Context, repos TransactionalRepositories, adj *adjustment.StockAdjustment, number string, txType stock.TransactionType, movement stock.MovementType, actorID uuid.UUID) ([]stock.LedgerEntry, error) {
	mc := stock.MovementContext{
		CompanyID:         adj.CompanyID,
		BranchID:          adj.BranchID,
		Lines:             adj.MovementLines(),
		TransactionID:     adj.ID,
		TransactionNumber: number,
		TransactionDate:   adj.AdjustmentDate,
		TransactionType:   txType,
		Movement:          movement,
		Account:           adjustmentAccount,
		AccountName:       adjustmentAccountName,
		CreatedBy:         actorID,
	}

	entries, err := stock.NewLedgerEntries(mc)
	if err != nil {
		return nil, err
	}
	if err := repos.Ledger().Append(ctx, entries); err != nil {
		return nil, err
	}
	if err := repos.Balances().ApplyDelta(ctx, mc); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetByID loads one adjustment
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*AdjustmentResponse, error) {
	var response *AdjustmentResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		adj, err := repos.Adjustments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		r := ToAdjustmentResponse(adj)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// List retrieves adjustments for a company/branch with paging
func (s *Service) List(ctx context.Context, companyID, branchID uuid.UUID, filter ListFilter) ([]AdjustmentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "adjustment_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.AdjustmentType != "" {
		domainFilter.Filters["adjustment_type"] = filter.AdjustmentType
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	var (
		responses []AdjustmentResponse
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		adjs, err := repos.Adjustments().FindAll(ctx, companyID, branchID, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.Adjustments().Count(ctx, companyID, branchID, domainFilter)
		if err != nil {
			return err
		}
		responses = ToAdjustmentResponses(adjs)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}
