package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caisse is a cash register. Balance is the materialized sum of
// InitialBalance plus every operation amount; Reconcile replays the
// operation journal and verifies the two agree.
type Caisse struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string          `gorm:"uniqueIndex;not null"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Balance        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Operations []CaisseOperation `gorm:"foreignKey:CaisseID"`
}

// CaisseOperation is an immutable event in the cash ledger.
// Kind: "deposit" | "withdrawal" | "sale" | "purchase_payment" | "adjustment"
// Amount is signed: deposits and sales are positive, withdrawals and
// purchase payments are negative. BalanceAfter snapshots the register
// balance right after the operation was applied.
// Operations are NEVER modified or deleted — reversals create inverse entries.
type CaisseOperation struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaisseID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Kind         string          `gorm:"type:varchar(30);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason       string          `gorm:"not null"`
	// ReferenceID links to the originating Sale or Purchase
	ReferenceID   *uuid.UUID `gorm:"type:uuid"`
	PerformedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
}

// TableName overrides GORM's default pluralization.
func (CaisseOperation) TableName() string { return "caisse_operations" }
