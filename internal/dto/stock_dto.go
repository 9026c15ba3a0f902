package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AddStockRequest adds units to an existing stock row (goods received
// outside a purchase, corrections upward).
type AddStockRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
	Reason    string `json:"reason"     validate:"required,min=3"`
}

// AdjustStockRequest applies a signed correction. Negative deltas are
// still bounded by the available quantity.
type AdjustStockRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Delta     int    `json:"delta"      validate:"required"`
	Reason    string `json:"reason"     validate:"required,min=3"`
}

// StockMovementFilter is bound from the query string of GET /v1/stock/movements.
type StockMovementFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Kind      string `form:"kind"` // sale | purchase | adjustment | initial | restore_cancellation
	From      string `form:"from"` // YYYY-MM-DD
	To        string `form:"to"`   // YYYY-MM-DD
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StockResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
	LastUpdated string `json:"last_updated"`
}

type StockMovementResponse struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name,omitempty"`
	Kind           string  `json:"kind"`
	Delta          int     `json:"delta"`
	QuantityBefore int     `json:"quantity_before"`
	QuantityAfter  int     `json:"quantity_after"`
	Reason         string  `json:"reason"`
	ReferenceID    *string `json:"reference_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
