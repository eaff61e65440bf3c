package models

import (
	"time"
)

// Inventory change types
const (
	ChangeTypeInitialStock    = "initial_stock"
	ChangeTypeStockIn         = "stock_in"
	ChangeTypeSale            = "sale"
	ChangeTypeAdjustmentPlus  = "adjustment_plus"
	ChangeTypeAdjustmentMinus = "adjustment_minus"
	ChangeTypeReturn          = "return" // restock from a cancelled order
)

// InventoryLog is an append-only audit record of a stock change. Rows
// are never updated or deleted; for every row
// stock_after = stock_before + quantity_change.
type InventoryLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProductID      uint      `gorm:"not null;index" json:"product_id"`
	Product        Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	UserID         *uint     `gorm:"index" json:"user_id"` // acting user, nullable
	User           *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	TransactionID  *uint     `gorm:"index" json:"transaction_id"` // related order, nullable
	ChangeType     string    `gorm:"not null;index;size:50" json:"change_type"`
	QuantityChange int       `gorm:"not null" json:"quantity_change"` // signed: + for additions, - for deductions
	StockBefore    int       `gorm:"not null" json:"stock_before"`
	StockAfter     int       `gorm:"not null" json:"stock_after"`
	Remarks        *string   `json:"remarks"` // e.g. invoice number, adjustment reason
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the InventoryLog model
func (InventoryLog) TableName() string {
	return "inventory_log"
}
