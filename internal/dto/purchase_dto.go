package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PurchaseItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
	// UnitPrice may be zero (free sample lines).
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
	Discount  decimal.Decimal `json:"discount"   validate:"min=0"`
}

type RecordPurchaseRequest struct {
	Reference  string `json:"reference"   validate:"required,min=2"`
	SupplierID string `json:"supplier_id" validate:"required,uuid"`
	// Date is the business date of the order (YYYY-MM-DD); defaults to today.
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	// ReceiveStock: when true the purchased quantities are added to stock
	// atomically with the purchase and the status is set to "received".
	ReceiveStock  bool   `json:"receive_stock"`
	PaymentStatus string `json:"payment_status" validate:"omitempty,oneof=unpaid partial paid"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=cash credit_card debit_card bank_transfer cheque mobile_payment other"`
	// SubjectToTax overrides the supplier's flag for this purchase only;
	// nil means inherit the supplier's default.
	SubjectToTax *bool `json:"subject_to_tax"`
	// CaisseID: when present and payment_status is "paid", the total is
	// withdrawn from this register atomically with the purchase.
	CaisseID *string               `json:"caisse_id" validate:"omitempty,uuid"`
	Notes    *string               `json:"notes"`
	Items    []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ReplaceItemsRequest struct {
	Items []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseFilter is bound from the query string of GET /v1/purchases.
type PurchaseFilter struct {
	SupplierID    string `form:"supplier_id" validate:"omitempty,uuid"`
	Status        string `form:"status"         validate:"omitempty,oneof=pending received cancelled all"`
	PaymentStatus string `form:"payment_status" validate:"omitempty,oneof=unpaid partial paid"`
	Reference     string `form:"reference"`
	From          string `form:"from"` // YYYY-MM-DD
	To            string `form:"to"`   // YYYY-MM-DD
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	HT          decimal.Decimal `json:"ht"`
	TVA         decimal.Decimal `json:"tva"`
	TTC         decimal.Decimal `json:"ttc"`
}

type PurchaseResponse struct {
	ID            string                 `json:"id"`
	Reference     string                 `json:"reference"`
	SupplierID    string                 `json:"supplier_id"`
	SupplierName  string                 `json:"supplier_name,omitempty"`
	Date          string                 `json:"date"`
	Status        string                 `json:"status"`
	PaymentStatus string                 `json:"payment_status"`
	PaymentMethod string                 `json:"payment_method"`
	SubjectToTax  bool                   `json:"subject_to_tax"`
	Items         []PurchaseItemResponse `json:"items"`
	TotalHT       decimal.Decimal        `json:"total_ht"`
	TotalTVA      decimal.Decimal        `json:"total_tva"`
	TotalTTC      decimal.Decimal        `json:"total_ttc"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	Notes         *string                `json:"notes,omitempty"`
	CaisseID      *string                `json:"caisse_id,omitempty"`
	CreatedAt     string                 `json:"created_at"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
