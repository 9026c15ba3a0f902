package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// PhoneSpecRequest carries phone-only attributes on product creation.
type PhoneSpecRequest struct {
	ModelName       string           `json:"model_name"       validate:"required"`
	Processor       *string          `json:"processor"`
	RAMGB           *int             `json:"ram_gb"           validate:"omitempty,min=1"`
	StorageGB       *int             `json:"storage_gb"       validate:"omitempty,min=1"`
	ScreenSizeInch  *decimal.Decimal `json:"screen_size_inch"`
	ScreenType      *string          `json:"screen_type"      validate:"omitempty,oneof=oled amoled lcd ips_lcd retina dynamic_amoled other"`
	OperatingSystem *string          `json:"operating_system"`
	RearCameraMP    *string          `json:"rear_camera_mp"`
	FrontCameraMP   *string          `json:"front_camera_mp"`
	BatteryMAh      *int             `json:"battery_mah"      validate:"omitempty,min=1"`
	Color           *string          `json:"color"`
	Condition       string           `json:"condition"        validate:"omitempty,oneof=new used refurbished open_box"`
	Version         string           `json:"version"          validate:"omitempty,oneof=global chinese indian european us other"`
	PhoneType       string           `json:"phone_type"       validate:"omitempty,oneof=ordinary foldable flip tablet gaming rugged other"`
}

// AccessorySpecRequest carries accessory-only attributes on product creation.
type AccessorySpecRequest struct {
	Category           string           `json:"category" validate:"required,oneof=case charger wired_headphones wireless_headphones cable screen_protector power_bank other"`
	Color              *string          `json:"color"`
	Material           *string          `json:"material"`
	VoltageV           *decimal.Decimal `json:"voltage_v"`
	AmperageA          *decimal.Decimal `json:"amperage_a"`
	WattageW           *decimal.Decimal `json:"wattage_w"`
	BatteryCapacityMAh *int             `json:"battery_capacity_mah" validate:"omitempty,min=1"`
	CableType          *string          `json:"cable_type"`
	LengthCM           *int             `json:"length_cm"            validate:"omitempty,min=1"`
	ConnectionType     *string          `json:"connection_type"`
	WirelessRangeM     *int             `json:"wireless_range_m"     validate:"omitempty,min=1"`
	NoiseCancellation  bool             `json:"noise_cancellation"`
	HardnessRating     *string          `json:"hardness_rating"`
	Finish             *string          `json:"finish"`
}

type CreateProductRequest struct {
	Name        string `json:"name"         validate:"required,min=2"`
	ProductType string `json:"product_type" validate:"required,oneof=phone accessory"`
	BrandName   string `json:"brand_name"`
	// Code: optional — generated when absent, upper-cased when provided
	Code        *string `json:"code" validate:"omitempty,len=4,alphanum"`
	Description *string `json:"description"`
	Note        *string `json:"note"`

	CostPrice            decimal.Decimal  `json:"cost_price"              validate:"min=0"`
	SellingUnitPrice     decimal.Decimal  `json:"selling_unit_price"      validate:"required,gt=0"`
	SellingSemiBulkPrice *decimal.Decimal `json:"selling_semi_bulk_price" validate:"omitempty,gt=0"`
	SellingBulkPrice     *decimal.Decimal `json:"selling_bulk_price"      validate:"omitempty,gt=0"`

	PhoneSpec     *PhoneSpecRequest     `json:"phone_spec"`
	AccessorySpec *AccessorySpecRequest `json:"accessory_spec"`
}

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Name        string `form:"name"`
	Code        string `form:"code"`
	ProductType string `form:"product_type"` // phone | accessory
	Brand       string `form:"brand"`
	Active      string `form:"active"` // "false" = inactive, "all" = everything, default active
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	ProductType string  `json:"product_type"`
	BrandName   string  `json:"brand_name"`
	Description *string `json:"description,omitempty"`
	Note        *string `json:"note,omitempty"`

	CostPrice            decimal.Decimal  `json:"cost_price"`
	SellingUnitPrice     decimal.Decimal  `json:"selling_unit_price"`
	SellingSemiBulkPrice *decimal.Decimal `json:"selling_semi_bulk_price,omitempty"`
	SellingBulkPrice     *decimal.Decimal `json:"selling_bulk_price,omitempty"`

	StockQuantity int  `json:"stock_quantity"`
	Active        bool `json:"active"`

	PhoneSpec     *PhoneSpecRequest     `json:"phone_spec,omitempty"`
	AccessorySpec *AccessorySpecRequest `json:"accessory_spec,omitempty"`

	CreatedAt string `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceLookupResponse is the public, cacheable price-check payload.
type PriceLookupResponse struct {
	Name                 string           `json:"name"`
	Code                 string           `json:"code"`
	ProductType          string           `json:"product_type"`
	SellingUnitPrice     decimal.Decimal  `json:"selling_unit_price"`
	SellingSemiBulkPrice *decimal.Decimal `json:"selling_semi_bulk_price,omitempty"`
	SellingBulkPrice     *decimal.Decimal `json:"selling_bulk_price,omitempty"`
	StockAvailable       int              `json:"stock_available"`
}
