package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateSupplierRequest struct {
	Name    string  `json:"name" validate:"required,min=2"`
	Code    string  `json:"code" validate:"required,min=2,max=20"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`

	RC  *string `json:"rc"`
	NIF *string `json:"nif"`
	AI  *string `json:"ai"`
	NIS *string `json:"nis"`

	SubjectToTax *bool `json:"subject_to_tax"` // defaults to true
}

// SupplierFilter is bound from the query string of GET /v1/suppliers.
type SupplierFilter struct {
	Name   string `form:"name"`
	Code   string `form:"code"`
	Active string `form:"active"` // "false" = inactive, "all" = everything, default active
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SupplierResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Code    string  `json:"code"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`

	RC  *string `json:"rc,omitempty"`
	NIF *string `json:"nif,omitempty"`
	AI  *string `json:"ai,omitempty"`
	NIS *string `json:"nis,omitempty"`

	SubjectToTax bool   `json:"subject_to_tax"`
	Active       bool   `json:"active"`
	CreatedAt    string `json:"created_at"`
}

type SupplierListResponse struct {
	Data  []SupplierResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
