package adjustment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockbook/backend/internal/domain/adjustment"
	"github.com/stockbook/backend/internal/domain/shared"
	"github.com/stockbook/backend/internal/domain/stock"
)

// ItemInput is one requested adjustment line
type ItemInput struct {
	ItemID   uuid.UUID
	ItemCode string
	ItemName string
	Unit     string
	Quantity decimal.Decimal
	Rate     decimal.Decimal
	Remarks  string
}

// AdjustmentRequest carries the data for the create and edit workflows.
// AdjustmentNumber may be supplied by the caller; when empty the service
// assigns a generated one.
type AdjustmentRequest struct {
	CompanyID        uuid.UUID
	BranchID         uuid.UUID
	AdjustmentType   string
	AdjustmentDate   time.Time
	AdjustmentNumber string
	Reference        string
	Reason           string
	Items            []ItemInput
}

// Validate checks the required-field preconditions of the workflows
func (r *AdjustmentRequest) Validate() error {
	if r.CompanyID == uuid.Nil {
		return shared.NewDomainError("VALIDATION", "Company is required")
	}
	if r.BranchID == uuid.Nil {
		return shared.NewDomainError("VALIDATION", "Branch is required")
	}
	if r.AdjustmentType == "" {
		return shared.NewDomainError("VALIDATION", "Adjustment type is required")
	}
	if len(r.Items) == 0 {
		return shared.NewDomainError("VALIDATION", "At least one item is required")
	}
	return nil
}

// lines converts the request items into domain lines; amounts are derived
// later by the aggregate, never taken from input
func (r *AdjustmentRequest) lines() []adjustment.Line {
	lines := make([]adjustment.Line, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, adjustment.Line{
			BaseEntity: shared.NewBaseEntity(),
			ItemID:     item.ItemID,
			ItemCode:   item.ItemCode,
			ItemName:   item.ItemName,
			Unit:       item.Unit,
			Quantity:   item.Quantity,
			Rate:       item.Rate,
			Remarks:    item.Remarks,
		})
	}
	return lines
}

// LineResponse is one adjustment line in service responses
type LineResponse struct {
	ID             uuid.UUID       `json:"id"`
	ItemID         uuid.UUID       `json:"item_id"`
	ItemCode       string          `json:"item_code"`
	ItemName       string          `json:"item_name"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	Rate           decimal.Decimal `json:"rate"`
	Amount         decimal.Decimal `json:"amount"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	AmountAfterTax decimal.Decimal `json:"amount_after_tax"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Remarks        string          `json:"remarks,omitempty"`
}

// AdjustmentResponse is a stock adjustment in service responses
type AdjustmentResponse struct {
	ID               uuid.UUID       `json:"id"`
	CompanyID        uuid.UUID       `json:"company_id"`
	BranchID         uuid.UUID       `json:"branch_id"`
	AdjustmentNumber string          `json:"adjustment_number"`
	AdjustmentDate   time.Time       `json:"adjustment_date"`
	AdjustmentType   string          `json:"adjustment_type"`
	Reference        string          `json:"reference,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	Lines            []LineResponse  `json:"items"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Status           string          `json:"status"`
	CreatedBy        uuid.UUID       `json:"created_by"`
	UpdatedBy        *uuid.UUID      `json:"updated_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Result bundles the persisted adjustment with the ledger entries the
// workflow appended
type Result struct {
	Adjustment    AdjustmentResponse  `json:"adjustment"`
	LedgerEntries []stock.LedgerEntry `json:"ledger_entries"`
}

// ToAdjustmentResponse maps a domain adjustment to its response form
func ToAdjustmentResponse(adj *adjustment.StockAdjustment) AdjustmentResponse {
	lines := make([]LineResponse, 0, len(adj.Lines))
	for i := range adj.Lines {
		l := &adj.Lines[i]
		lines = append(lines, LineResponse{
			ID:             l.ID,
			ItemID:         l.ItemID,
			ItemCode:       l.ItemCode,
			ItemName:       l.ItemName,
			Unit:           l.Unit,
			Quantity:       l.Quantity,
			Rate:           l.Rate,
			Amount:         l.Amount,
			BaseAmount:     l.BaseAmount,
			AmountAfterTax: l.AmountAfterTax,
			TaxRate:        l.TaxRate,
			TaxAmount:      l.TaxAmount,
			Remarks:        l.Remarks,
		})
	}
	return AdjustmentResponse{
		ID:               adj.ID,
		CompanyID:        adj.CompanyID,
		BranchID:         adj.BranchID,
		AdjustmentNumber: adj.AdjustmentNumber,
		AdjustmentDate:   adj.AdjustmentDate,
		AdjustmentType:   string(adj.AdjustmentType),
		Reference:        adj.Reference,
		Reason:           adj.Reason,
		Lines:            lines,
		TotalAmount:      adj.TotalAmount,
		Status:           string(adj.Status),
		CreatedBy:        adj.CreatedBy,
		UpdatedBy:        adj.UpdatedBy,
		CreatedAt:        adj.CreatedAt,
		UpdatedAt:        adj.UpdatedAt,
	}
}

// ToAdjustmentResponses maps a slice of domain adjustments
func ToAdjustmentResponses(adjs []adjustment.StockAdjustment) []AdjustmentResponse {
	responses := make([]AdjustmentResponse, 0, len(adjs))
	for i := range adjs {
		responses = append(responses, ToAdjustmentResponse(&adjs[i]))
	}
	return responses
}

// ListFilter holds listing options for the read surface
type ListFilter struct {
	Page           int
	PageSize       int
	OrderBy        string
	OrderDir       string
	AdjustmentType string
	StartDate      *time.Time
	EndDate        *time.Time
}
