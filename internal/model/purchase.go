package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a supplier order. Header totals are always recomputed from
// the current item set inside the same transaction that changes the items.
// Status: "pending" | "received" | "cancelled"
// PaymentStatus: "unpaid" | "partial" | "paid"
// PaymentMethod: "cash" | "credit_card" | "debit_card" | "bank_transfer" |
// "cheque" | "mobile_payment" | "other"
type Purchase struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Reference  string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Date is the business date of the order, supplied by the caller;
	// CreatedAt records when the row was written.
	Date time.Time `gorm:"type:date;not null;index"`

	Status        string `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:'unpaid'"`
	PaymentMethod string `gorm:"type:varchar(20);not null;default:'cash'"`
	// SubjectToTax is fixed per purchase at record time; the supplier's
	// flag only provides the default.
	SubjectToTax bool `gorm:"not null;default:true"`

	TotalHT  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:total_ht"`
	TotalTVA decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:total_tva"`
	TotalTTC decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:total_ttc"`
	// TotalAmount mirrors TotalTTC; kept as its own column so reports never
	// depend on which derived field a client reads.
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Notes *string
	// CaisseID is set when the purchase was paid in cash on record
	CaisseID    *uuid.UUID `gorm:"type:uuid"`
	CreatedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID"`
}

// PurchaseItem carries the derived line amounts:
//
//	HT  = Quantity × UnitPrice − Discount
//	TVA = HT × rate   (0 when the purchase is not subject to tax)
//	TTC = HT + TVA
//
// ProductName and ProductCode are snapshots taken at record time, so
// purchase history survives later catalog renames.
type PurchaseItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null"`

	ProductName string `gorm:"type:varchar(255);not null"`
	ProductCode string `gorm:"type:varchar(10);not null"`

	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	HT  decimal.Decimal `gorm:"type:decimal(12,2);not null;column:ht"`
	TVA decimal.Decimal `gorm:"type:decimal(12,2);not null;column:tva"`
	TTC decimal.Decimal `gorm:"type:decimal(12,2);not null;column:ttc"`
}
