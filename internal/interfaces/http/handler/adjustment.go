package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	adjustmentapp "github.com/stockbook/backend/internal/application/adjustment"
	"github.com/stockbook/backend/internal/interfaces/http/dto"
	"github.com/stockbook/backend/internal/interfaces/http/middleware"
)

// parseDateTime parses a datetime string in various formats
func parseDateTime(s string) (time.Time, error) {
	// Try RFC3339 first
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	// Try ISO date format
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	// Try datetime without timezone
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	// Default to RFC3339 parsing error
	return time.Parse(time.RFC3339, s)
}

// AdjustmentHandler handles stock adjustment API endpoints
type AdjustmentHandler struct {
	BaseHandler
	service *adjustmentapp.Service
}

// NewAdjustmentHandler creates a new AdjustmentHandler
func NewAdjustmentHandler(service *adjustmentapp.Service) *AdjustmentHandler {
	return &AdjustmentHandler{
		service: service,
	}
}

// AdjustmentItemRequest represents one adjustment line in a request body
// @Description Adjustment line with item and quantity information
type AdjustmentItemRequest struct {
	ItemID   string  `json:"item_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	ItemCode string  `json:"item_code" example:"SKU-001"`
	ItemName string  `json:"item_name" example:"Widget"`
	Unit     string  `json:"unit" example:"pcs"`
	Quantity float64 `json:"quantity" binding:"required,gt=0" example:"10.0"`
	Rate     float64 `json:"rate" binding:"gte=0" example:"5.0"`
	Remarks  string  `json:"remarks" example:"Damaged in transit"`
}

// CreateAdjustmentRequest represents the request to create a stock adjustment
// @Description Request body for creating a stock adjustment
type CreateAdjustmentRequest struct {
	CompanyID        string                  `json:"company_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
	BranchID         string                  `json:"branch_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440002"`
	AdjustmentType   string                  `json:"adjustment_type" binding:"required,oneof=add remove" example:"add"`
	AdjustmentDate   string                  `json:"adjustment_date" binding:"required" example:"2026-03-15"`
	AdjustmentNumber string                  `json:"adjustment_number" example:"ADJ-2026-0001"`
	Reference        string                  `json:"reference" example:"Stock count March"`
	Reason           string                  `json:"reason" example:"Count variance"`
	Items            []AdjustmentItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateAdjustmentRequest represents the request to edit a stock adjustment.
// The full line set replaces the existing one.
// @Description Request body for editing a stock adjustment
type UpdateAdjustmentRequest struct {
	CompanyID      string                  `json:"company_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
	BranchID       string                  `json:"branch_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440002"`
	AdjustmentType string                  `json:"adjustment_type" binding:"required,oneof=add remove" example:"remove"`
	AdjustmentDate string                  `json:"adjustment_date" binding:"required" example:"2026-03-15"`
	Reference      string                  `json:"reference" example:"Stock count March"`
	Reason         string                  `json:"reason" example:"Count variance"`
	Items          []AdjustmentItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AdjustmentListQuery represents query parameters for listing adjustments
type AdjustmentListQuery struct {
	CompanyID      string `form:"company_id" binding:"required,uuid"`
	BranchID       string `form:"branch_id" binding:"required,uuid"`
	AdjustmentType string `form:"adjustment_type" binding:"omitempty,oneof=add remove"`
	StartDate      string `form:"start_date"`
	EndDate        string `form:"end_date"`
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// bindingError sends either a detailed validation response or a plain 400
func (h *AdjustmentHandler) bindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]dto.ValidationDetail, 0, len(validationErrors))
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: middleware.ValidationMessage(e),
			})
		}
		h.ValidationError(c, details)
		return
	}
	h.BadRequest(c, err.Error())
}

// toItemInputs converts HTTP line items to application inputs
func toItemInputs(items []AdjustmentItemRequest) ([]adjustmentapp.ItemInput, error) {
	inputs := make([]adjustmentapp.ItemInput, 0, len(items))
	for _, item := range items {
		itemID, err := uuid.Parse(item.ItemID)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, adjustmentapp.ItemInput{
			ItemID:   itemID,
			ItemCode: item.ItemCode,
			ItemName: item.ItemName,
			Unit:     item.Unit,
			Quantity: toDecimal(item.Quantity),
			Rate:     toDecimal(item.Rate),
			Remarks:  item.Remarks,
		})
	}
	return inputs, nil
}

// Create godoc
// @ID           createAdjustment
// @Summary      Create stock adjustment
// @Description  Create a completed stock adjustment, updating stock levels, the ledger, and monthly balances atomically
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting user ID" format(uuid)
// @Param        request body CreateAdjustmentRequest true "Adjustment create request"
// @Success      201 {object} APIResponse[adjustmentapp.Result]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /adjustments [post]
func (h *AdjustmentHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing or invalid user ID")
		return
	}

	var req CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		h.BadRequest(c, "Invalid branch ID format")
		return
	}

	adjustmentDate, err := parseDateTime(req.AdjustmentDate)
	if err != nil {
		h.BadRequest(c, "Invalid adjustment date format")
		return
	}

	items, err := toItemInputs(req.Items)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	appReq := adjustmentapp.AdjustmentRequest{
		CompanyID:        companyID,
		BranchID:         branchID,
		AdjustmentType:   req.AdjustmentType,
		AdjustmentDate:   adjustmentDate,
		AdjustmentNumber: req.AdjustmentNumber,
		Reference:        req.Reference,
		Reason:           req.Reason,
		Items:            items,
	}

	result, err := h.service.Create(c.Request.Context(), appReq, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// Update godoc
// @ID           updateAdjustment
// @Summary      Edit stock adjustment
// @Description  Replace an adjustment's content, reverting its previous stock effects and applying the new ones atomically
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Acting user ID" format(uuid)
// @Param        id path string true "Adjustment ID" format(uuid)
// @Param        request body UpdateAdjustmentRequest true "Adjustment edit request"
// @Success      200 {object} APIResponse[adjustmentapp.Result]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /adjustments/{id} [put]
func (h *AdjustmentHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing or invalid user ID")
		return
	}

	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}

	var req UpdateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		h.BadRequest(c, "Invalid branch ID format")
		return
	}

	adjustmentDate, err := parseDateTime(req.AdjustmentDate)
	if err != nil {
		h.BadRequest(c, "Invalid adjustment date format")
		return
	}

	items, err := toItemInputs(req.Items)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	appReq := adjustmentapp.AdjustmentRequest{
		CompanyID:      companyID,
		BranchID:       branchID,
		AdjustmentType: req.AdjustmentType,
		AdjustmentDate: adjustmentDate,
		Reference:      req.Reference,
		Reason:         req.Reason,
		Items:          items,
	}

	result, err := h.service.Edit(c.Request.Context(), adjustmentID, appReq, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @ID           deleteAdjustment
// @Summary      Delete stock adjustment
// @Description  Delete an adjustment, reverting its stock effects while retaining the ledger trail
// @Tags         adjustments
// @Produce      json
// @Param        X-User-ID header string true "Acting user ID" format(uuid)
// @Param        id path string true "Adjustment ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /adjustments/{id} [delete]
func (h *AdjustmentHandler) Delete(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing or invalid user ID")
		return
	}

	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), adjustmentID, actorID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID godoc
// @ID           getAdjustmentById
// @Summary      Get stock adjustment by ID
// @Description  Retrieve a stock adjustment with its lines
// @Tags         adjustments
// @Produce      json
// @Param        id path string true "Adjustment ID" format(uuid)
// @Success      200 {object} APIResponse[adjustmentapp.AdjustmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *gin.Context) {
	adjustmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID format")
		return
	}

	adj, err := h.service.GetByID(c.Request.Context(), adjustmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, adj)
}

// List godoc
// @ID           listAdjustments
// @Summary      List stock adjustments
// @Description  Retrieve a paginated list of stock adjustments for a company branch
// @Tags         adjustments
// @Produce      json
// @Param        company_id query string true "Company ID" format(uuid)
// @Param        branch_id query string true "Branch ID" format(uuid)
// @Param        adjustment_type query string false "Filter by adjustment type" Enums(add, remove)
// @Param        start_date query string false "Filter by start date" format(date)
// @Param        end_date query string false "Filter by end date" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(adjustment_date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]adjustmentapp.AdjustmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /adjustments [get]
func (h *AdjustmentHandler) List(c *gin.Context) {
	var query AdjustmentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.bindingError(c, err)
		return
	}

	companyID, err := uuid.Parse(query.CompanyID)
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	branchID, err := uuid.Parse(query.BranchID)
	if err != nil {
		h.BadRequest(c, "Invalid branch ID format")
		return
	}

	filter := adjustmentapp.ListFilter{
		Page:           query.Page,
		PageSize:       query.PageSize,
		OrderBy:        query.OrderBy,
		OrderDir:       query.OrderDir,
		AdjustmentType: query.AdjustmentType,
	}

	if query.StartDate != "" {
		start, err := parseDateTime(query.StartDate)
		if err != nil {
			h.BadRequest(c, "Invalid start date format")
			return
		}
		filter.StartDate = &start
	}
	if query.EndDate != "" {
		end, err := parseDateTime(query.EndDate)
		if err != nil {
			h.BadRequest(c, "Invalid end date format")
			return
		}
		filter.EndDate = &end
	}

	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	adjs, total, err := h.service.List(c.Request.Context(), companyID, branchID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, adjs, total, filter.Page, filter.PageSize)
}
