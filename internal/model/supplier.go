package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier holds commercial and fiscal identification data.
// RC/NIF/AI/NIS are the fiscal registry numbers printed on purchase
// documents; SubjectToTax drives whether purchase lines accrue TVA.
type Supplier struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"not null"`
	Code    string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Phone   *string
	Email   *string
	Address *string

	RC  *string `gorm:"type:varchar(50);column:rc"`
	NIF *string `gorm:"type:varchar(50);column:nif"`
	AI  *string `gorm:"type:varchar(50);column:ai"`
	NIS *string `gorm:"type:varchar(50);column:nis"`

	SubjectToTax bool `gorm:"not null;default:true"`
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Purchases []Purchase `gorm:"foreignKey:SupplierID"`
}
