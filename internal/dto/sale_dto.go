package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type RecordSaleRequest struct {
	SaleType     string            `json:"sale_type" validate:"required,oneof=particular semi-bulk bulk"`
	CustomerName *string           `json:"customer_name"`
	Items        []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	// GenerateInvoice issues a uniquely numbered invoice inside the sale transaction
	GenerateInvoice bool `json:"generate_invoice"`
	// CaisseID: when present, the sale total is deposited into this register
	// atomically with the sale.
	CaisseID *string `json:"caisse_id" validate:"omitempty,uuid"`
	// CustomerEmail: optional — when present, the invoice worker mails the PDF.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type CancelSaleRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	From       string `form:"from"` // YYYY-MM-DD
	To         string `form:"to"`   // YYYY-MM-DD
	SaleType   string `form:"sale_type"   validate:"omitempty,oneof=particular semi-bulk bulk"`
	Status     string `form:"status"`      // completed | cancelled | all
	HasInvoice string `form:"has_invoice"` // "true" | "false"
	Customer   string `form:"customer"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// InvoiceFilter is bound from the query string of GET /v1/invoices.
type InvoiceFilter struct {
	From   string `form:"from"`
	To     string `form:"to"`
	Number string `form:"number"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	SaleType      string             `json:"sale_type"`
	CustomerName  *string            `json:"customer_name,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	HasInvoice    bool               `json:"has_invoice"`
	InvoiceNumber *string            `json:"invoice_number,omitempty"`
	CaisseID      *string            `json:"caisse_id,omitempty"`
	Status        string             `json:"status"`
	CreatedAt     string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type InvoiceResponse struct {
	ID            string          `json:"id"`
	SaleID        string          `json:"sale_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerInfo  *string         `json:"customer_info,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PDFPath       *string         `json:"pdf_path,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type InvoiceListResponse struct {
	Data  []InvoiceResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
