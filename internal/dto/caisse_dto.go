package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCaisseRequest struct {
	Name           string          `json:"name"            validate:"required,min=2"`
	InitialBalance decimal.Decimal `json:"initial_balance" validate:"min=0"`
}

type CaisseMovementRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Reason string          `json:"reason" validate:"required,min=3"`
}

// CaisseOperationFilter is bound from the query string of
// GET /v1/caisses/:id/operations.
type CaisseOperationFilter struct {
	Kind  string `form:"kind"` // deposit | withdrawal | sale | purchase_payment | adjustment
	From  string `form:"from"` // YYYY-MM-DD
	To    string `form:"to"`   // YYYY-MM-DD
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CaisseResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Active         bool            `json:"active"`
	CreatedAt      string          `json:"created_at"`
}

type CaisseListResponse struct {
	Data []CaisseResponse `json:"data"`
}

type CaisseOperationResponse struct {
	ID           string          `json:"id"`
	CaisseID     string          `json:"caisse_id"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Reason       string          `json:"reason"`
	ReferenceID  *string         `json:"reference_id,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

type CaisseOperationListResponse struct {
	Data  []CaisseOperationResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

// ReconcileResponse reports the journal replay against the materialized
// balance. Consistent is true only when every operation's balance_after
// matches the running sum AND the final sum equals the stored balance.
type ReconcileResponse struct {
	CaisseID        string          `json:"caisse_id"`
	Consistent      bool            `json:"consistent"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	RecordedBalance decimal.Decimal `json:"recorded_balance"`
	OperationCount  int             `json:"operation_count"`
	FirstMismatchID *string         `json:"first_mismatch_id,omitempty"`
}
