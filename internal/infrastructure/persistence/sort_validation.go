package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// AdjustmentSortFields contains allowed sort fields for stock adjustments
var AdjustmentSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"adjustment_number": true,
	"adjustment_date":   true,
	"adjustment_type":   true,
	"total_amount":      true,
	"status":            true,
}

// LedgerSortFields contains allowed sort fields for stock ledger entries
var LedgerSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"transaction_date":   true,
	"transaction_number": true,
	"transaction_type":   true,
	"movement_type":      true,
	"item_id":            true,
}
