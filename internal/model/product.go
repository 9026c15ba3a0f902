package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the sellable catalog entry shared by phones and accessories.
// ProductType selects which spec record (PhoneSpec / AccessorySpec) carries
// the variant attributes — composition instead of table inheritance.
type Product struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code string    `gorm:"type:varchar(4);uniqueIndex;not null"`
	Name string    `gorm:"uniqueIndex;not null"`
	// ProductType: "phone" | "accessory"
	ProductType string `gorm:"type:varchar(20);not null"`
	BrandName   string `gorm:"index"`
	Description *string
	Note        *string

	CostPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellingUnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// Semi-bulk and bulk prices are optional; pricing falls back to the
	// unit price when the requested tier has no price set.
	SellingSemiBulkPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	SellingBulkPrice     *decimal.Decimal `gorm:"type:decimal(10,2)"`

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	PhoneSpec     *PhoneSpec     `gorm:"foreignKey:ProductID"`
	AccessorySpec *AccessorySpec `gorm:"foreignKey:ProductID"`
	Stock         *Stock         `gorm:"foreignKey:ProductID"`
}

// PhoneSpec holds the phone-only attributes of a product.
// Condition: "new" | "used" | "refurbished" | "open_box"
// Version: "global" | "chinese" | "indian" | "european" | "us" | "other"
// PhoneType: "ordinary" | "foldable" | "flip" | "tablet" | "gaming" | "rugged" | "other"
type PhoneSpec struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	ModelName       string `gorm:"not null"`
	Processor       *string
	RAMGB           *int             `gorm:"column:ram_gb"`
	StorageGB       *int             `gorm:"column:storage_gb"`
	ScreenSizeInch  *decimal.Decimal `gorm:"type:decimal(4,2)"`
	ScreenType      *string          `gorm:"type:varchar(30)"`
	OperatingSystem *string          `gorm:"type:varchar(50)"`
	RearCameraMP    *string          `gorm:"column:rear_camera_mp"`
	FrontCameraMP   *string          `gorm:"column:front_camera_mp"`
	BatteryMAh      *int             `gorm:"column:battery_mah"`
	Color           *string          `gorm:"type:varchar(50)"`

	Condition string `gorm:"type:varchar(20);not null;default:'new'"`
	Version   string `gorm:"type:varchar(20);not null;default:'global'"`
	PhoneType string `gorm:"type:varchar(20);not null;default:'ordinary'"`
}

// AccessorySpec holds the accessory-only attributes of a product.
// Category: "case" | "charger" | "wired_headphones" | "wireless_headphones" |
// "cable" | "screen_protector" | "power_bank" | "other"
type AccessorySpec struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	Category string `gorm:"type:varchar(30);not null"`
	Color    *string
	Material *string

	// Charger / power bank
	VoltageV           *decimal.Decimal `gorm:"type:decimal(5,2)"`
	AmperageA          *decimal.Decimal `gorm:"type:decimal(5,2)"`
	WattageW           *decimal.Decimal `gorm:"type:decimal(6,2)"`
	BatteryCapacityMAh *int             `gorm:"column:battery_capacity_mah"`

	// Cable
	CableType *string
	LengthCM  *int `gorm:"column:length_cm"`

	// Headphones
	ConnectionType    *string
	WirelessRangeM    *int `gorm:"column:wireless_range_m"`
	NoiseCancellation bool `gorm:"not null;default:false"`

	// Screen protector
	HardnessRating *string `gorm:"type:varchar(10)"`
	Finish         *string `gorm:"type:varchar(30)"`
}
