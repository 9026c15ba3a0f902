package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale records a completed sale with its immutable price snapshots.
// SaleType: "particular" | "semi-bulk" | "bulk"
// Status: "completed" | "cancelled"
type Sale struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleType     string          `gorm:"type:varchar(20);not null"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CustomerName *string
	HasInvoice   bool   `gorm:"not null;default:false"`
	Status       string `gorm:"type:varchar(20);not null;default:'completed'"`
	// SoldByID is the operator taken from the request claims
	SoldByID *uuid.UUID `gorm:"type:uuid"`
	// CaisseID is set when the sale total was deposited into a cash register
	CaisseID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items   []SaleItem `gorm:"foreignKey:SaleID"`
	Invoice *Invoice   `gorm:"foreignKey:SaleID"`
	SoldBy  *User      `gorm:"foreignKey:SoldByID"`
}

// SaleItem snapshots the product name, code and the price that applied at
// the moment of sale. Later price changes never rewrite history.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"not null"`
	ProductCode string          `gorm:"type:varchar(4);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// Invoice is issued at most once per sale. The number is unique across
// all invoices ever issued.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	InvoiceNumber string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	CustomerInfo  *string
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// PDFPath is relative to PDF_STORAGE_PATH, filled by the async worker
	PDFPath   *string `gorm:"column:pdf_path"`
	CreatedAt time.Time

	Sale *Sale `gorm:"foreignKey:SaleID"`
}
