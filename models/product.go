package models

import (
	"time"
)

// Product represents a stock-bearing catalog item
type Product struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"not null;index" json:"name"`
	Description       *string   `json:"description"`
	CategoryID        *uint     `gorm:"index" json:"category_id"` // nullable, SET NULL when category is deleted
	Category          *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	SKU               *string   `gorm:"uniqueIndex;size:50" json:"sku"` // optional Stock Keeping Unit, unique when present
	PurchasePrice     float64   `gorm:"not null;default:0;check:purchase_price >= 0" json:"purchase_price"`
	SellingPrice      float64   `gorm:"not null;default:0;check:selling_price >= 0" json:"selling_price"`
	CurrentStock      int       `gorm:"not null;default:0;check:current_stock >= 0" json:"current_stock"`
	UnitOfMeasurement string    `gorm:"not null;default:'pcs';size:20" json:"unit_of_measurement"` // pcs, kg, liter, box
	LowStockThreshold int       `gorm:"default:0" json:"low_stock_threshold"`
	ImageS3Key        *string   `json:"image_s3_key"`                 // nullable, S3 key for the product photo
	ImageURL          *string   `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for the photo
	IsActive          bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether the product is at or below its configured
// low-stock threshold. A threshold of zero disables the check.
func (p *Product) IsLowStock() bool {
	return p.LowStockThreshold > 0 && p.CurrentStock <= p.LowStockThreshold
}
