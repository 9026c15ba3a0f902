package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock is the single inventory row per product. Quantity never goes
// negative — reservations are conditional updates guarded by the DB.
type Stock struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Quantity    int       `gorm:"not null;default:0"`
	LastUpdated time.Time `gorm:"autoUpdateTime"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// StockMovement records every stock change as an immutable journal entry.
// Kind: "sale" | "purchase" | "adjustment" | "initial" | "restore_cancellation"
// Delta is signed: positive = units in, negative = units out.
// Movements are NEVER modified or deleted — corrections create new entries.
type StockMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind           string    `gorm:"type:varchar(30);not null"`
	Delta          int       `gorm:"not null"`
	QuantityBefore int       `gorm:"not null"`
	QuantityAfter  int       `gorm:"not null"`
	Reason         string
	// ReferenceID links to the originating sale, purchase, or manual operation
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
