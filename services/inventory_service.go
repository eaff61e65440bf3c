package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/aditwicaksono/warung-pos-api/metrics"
	"github.com/aditwicaksono/warung-pos-api/models"
)

// ApplyStockDelta applies a signed quantity delta to a product's stock.
// It is the sole legal path to changing current_stock. The update is a
// single conditional UPDATE so that two concurrent deductions against
// the same product cannot jointly overdraw it: the WHERE clause
// re-checks non-negativity at write time regardless of what the caller
// read beforehand.
//
// It does not write a ledger entry; callers must pair it with
// CreateInventoryLog inside the same transaction. It has no opinion on
// whether the product is active.
func ApplyStockDelta(tx *gorm.DB, productID uint, delta int) (*models.Product, error) {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND current_stock + ? >= 0", productID, delta).
		Update("current_stock", gorm.Expr("current_stock + ?", delta))
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Either the product does not exist or the delta would take
		// stock negative. Disambiguate with a follow-up read.
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "product", ID: productID}
			}
			return nil, err
		}
		return nil, &InsufficientStockError{
			ProductName: product.Name,
			Requested:   -delta,
			Available:   product.CurrentStock,
		}
	}

	var product models.Product
	if err := tx.First(&product, productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateInventoryLog appends one immutable ledger row. It trusts the
// caller-supplied before/after/delta values and never mutates or reads
// other entities.
func CreateInventoryLog(tx *gorm.DB, entry *models.InventoryLog) error {
	return tx.Create(entry).Error
}

// StockInInput is the request for adding stock to a product
type StockInInput struct {
	ProductID     uint
	Quantity      int
	Remarks       *string
	PurchasePrice *float64 // optional updated purchase price
	UserID        *uint
}

// AddStock increases a product's stock and records a stock_in ledger
// entry, optionally updating the purchase price, all in one transaction.
func AddStock(db *gorm.DB, input StockInInput) (*models.InventoryLog, error) {
	if input.Quantity <= 0 {
		return nil, &InvalidInputError{Message: "stock-in quantity must be greater than zero"}
	}

	var logEntry models.InventoryLog
	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "product", ID: input.ProductID}
			}
			return err
		}

		stockBefore := product.CurrentStock

		updated, err := ApplyStockDelta(tx, input.ProductID, input.Quantity)
		if err != nil {
			return err
		}

		logEntry = models.InventoryLog{
			ProductID:      input.ProductID,
			UserID:         input.UserID,
			ChangeType:     models.ChangeTypeStockIn,
			QuantityChange: input.Quantity,
			StockBefore:    stockBefore,
			StockAfter:     updated.CurrentStock,
			Remarks:        input.Remarks,
		}
		if err := CreateInventoryLog(tx, &logEntry); err != nil {
			return err
		}

		if input.PurchasePrice != nil && *input.PurchasePrice != product.PurchasePrice {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", input.ProductID).
				Update("purchase_price", *input.PurchasePrice).Error; err != nil {
				return err
			}
		}

		metrics.UpdateProductStock(updated.ID, updated.Name, updated.CurrentStock)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordStockOperation(models.ChangeTypeStockIn)
	return &logEntry, nil
}

// StockAdjustmentInput is the request for correcting a product's stock
// to an absolute count. Remarks are mandatory: an adjustment always has
// a reason (count correction, damage, loss).
type StockAdjustmentInput struct {
	ProductID   uint
	NewQuantity int
	Remarks     string
	UserID      *uint
}

// AdjustStock sets a product's stock to an absolute quantity and records
// an adjustment ledger entry classified by the direction of the change.
func AdjustStock(db *gorm.DB, input StockAdjustmentInput) (*models.InventoryLog, error) {
	if input.NewQuantity < 0 {
		return nil, &InvalidInputError{Message: "adjusted quantity cannot be negative"}
	}
	if strings.TrimSpace(input.Remarks) == "" {
		return nil, &InvalidInputError{Message: "remarks are required for a stock adjustment"}
	}

	var logEntry models.InventoryLog
	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "product", ID: input.ProductID}
			}
			return err
		}

		stockBefore := product.CurrentStock
		quantityChange := input.NewQuantity - stockBefore

		updated, err := ApplyStockDelta(tx, input.ProductID, quantityChange)
		if err != nil {
			return err
		}

		changeType := models.ChangeTypeAdjustmentPlus
		if quantityChange < 0 {
			changeType = models.ChangeTypeAdjustmentMinus
		}

		remarks := input.Remarks
		logEntry = models.InventoryLog{
			ProductID:      input.ProductID,
			UserID:         input.UserID,
			ChangeType:     changeType,
			QuantityChange: quantityChange,
			StockBefore:    stockBefore,
			StockAfter:     updated.CurrentStock,
			Remarks:        &remarks,
		}
		if err := CreateInventoryLog(tx, &logEntry); err != nil {
			return err
		}

		metrics.UpdateProductStock(updated.ID, updated.Name, updated.CurrentStock)
		metrics.RecordStockOperation(changeType)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &logEntry, nil
}

// GetInventoryLogs returns the ledger for a product, most recent first,
// with the total row count for pagination.
func GetInventoryLogs(db *gorm.DB, productID uint, page, limit int) ([]models.InventoryLog, int64, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, &NotFoundError{Entity: "product", ID: productID}
		}
		return nil, 0, err
	}

	query := db.Model(&models.InventoryLog{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}

	var logs []models.InventoryLog
	if err := query.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
