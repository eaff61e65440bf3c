package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/aditwicaksono/warung-pos-api/metrics"
	"github.com/aditwicaksono/warung-pos-api/models"
)

// ProductCreateInput is the request for creating a catalog entry
type ProductCreateInput struct {
	Name              string
	Description       *string
	CategoryID        *uint
	SKU               *string
	PurchasePrice     float64
	SellingPrice      float64
	CurrentStock      int
	UnitOfMeasurement string
	LowStockThreshold int
	UserID            *uint // acting user, attributed on the initial stock log
}

// CreateProduct creates a product and, when it starts with stock,
// records the opening balance as an initial_stock ledger entry in the
// same transaction.
func CreateProduct(db *gorm.DB, input ProductCreateInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, &InvalidInputError{Message: "product name is required"}
	}
	if input.PurchasePrice < 0 || input.SellingPrice < 0 {
		return nil, &InvalidInputError{Message: "prices cannot be negative"}
	}
	if input.CurrentStock < 0 {
		return nil, &InvalidInputError{Message: "initial stock cannot be negative"}
	}

	unit := input.UnitOfMeasurement
	if unit == "" {
		unit = "pcs"
	}

	var product models.Product
	err := db.Transaction(func(tx *gorm.DB) error {
		if input.SKU != nil && *input.SKU != "" {
			var count int64
			if err := tx.Model(&models.Product{}).Where("sku = ?", *input.SKU).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return &DuplicateKeyError{Field: "SKU", Value: *input.SKU}
			}
		}

		product = models.Product{
			Name:              input.Name,
			Description:       input.Description,
			CategoryID:        input.CategoryID,
			SKU:               normalizeSKU(input.SKU),
			PurchasePrice:     input.PurchasePrice,
			SellingPrice:      input.SellingPrice,
			CurrentStock:      input.CurrentStock,
			UnitOfMeasurement: unit,
			LowStockThreshold: input.LowStockThreshold,
			IsActive:          true,
		}
		if err := tx.Create(&product).Error; err != nil {
			return err
		}

		if product.CurrentStock > 0 {
			remarks := "Initial stock at product creation"
			logEntry := models.InventoryLog{
				ProductID:      product.ID,
				UserID:         input.UserID,
				ChangeType:     models.ChangeTypeInitialStock,
				QuantityChange: product.CurrentStock,
				StockBefore:    0,
				StockAfter:     product.CurrentStock,
				Remarks:        &remarks,
			}
			if err := CreateInventoryLog(tx, &logEntry); err != nil {
				return err
			}
			metrics.RecordStockOperation(models.ChangeTypeInitialStock)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.UpdateProductStock(product.ID, product.Name, product.CurrentStock)
	return &product, nil
}

// normalizeSKU treats an empty SKU as absent so the unique index only
// applies to real values.
func normalizeSKU(sku *string) *string {
	if sku == nil || strings.TrimSpace(*sku) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	return &trimmed
}

// GetProduct returns one product with its category
func GetProduct(db *gorm.DB, productID uint) (*models.Product, error) {
	var product models.Product
	if err := db.Preload("Category").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product", ID: productID}
		}
		return nil, err
	}
	return &product, nil
}

// ProductListFilters narrows and paginates a product listing
type ProductListFilters struct {
	Search     string
	CategoryID *uint
	OnlyActive bool
	Page       int
	Limit      int
}

// ListProducts returns products ordered by name with the total match count
func ListProducts(db *gorm.DB, filters ProductListFilters) ([]models.Product, int64, error) {
	query := db.Model(&models.Product{})

	if filters.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(sku, '')) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 100
	}

	var products []models.Product
	if err := query.
		Preload("Category").
		Order("name").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// ListLowStockProducts returns active products at or below their
// low-stock threshold, most depleted first.
func ListLowStockProducts(db *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	err := db.
		Where("is_active = ?", true).
		Where("low_stock_threshold > 0").
		Where("current_stock <= low_stock_threshold").
		Order("current_stock").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ProductPatch carries the fields of a partial product update. Only
// non-nil fields override; current_stock is deliberately absent — stock
// changes go through the stock operations so the ledger stays truthful.
type ProductPatch struct {
	Name              *string
	Description       *string
	CategoryID        *uint
	SKU               *string
	PurchasePrice     *float64
	SellingPrice      *float64
	UnitOfMeasurement *string
	LowStockThreshold *int
	IsActive          *bool
}

// UpdateProduct applies a field-by-field merge of the patch onto the product
func UpdateProduct(db *gorm.DB, productID uint, patch ProductPatch) (*models.Product, error) {
	if patch.PurchasePrice != nil && *patch.PurchasePrice < 0 {
		return nil, &InvalidInputError{Message: "purchase price cannot be negative"}
	}
	if patch.SellingPrice != nil && *patch.SellingPrice < 0 {
		return nil, &InvalidInputError{Message: "selling price cannot be negative"}
	}

	var product models.Product
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "product", ID: productID}
			}
			return err
		}

		if patch.SKU != nil && *patch.SKU != "" {
			var existing models.Product
			err := tx.Where("sku = ? AND id <> ?", *patch.SKU, productID).First(&existing).Error
			if err == nil {
				return &DuplicateKeyError{Field: "SKU", Value: *patch.SKU}
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		updates := make(map[string]interface{})
		if patch.Name != nil {
			updates["name"] = *patch.Name
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.CategoryID != nil {
			updates["category_id"] = *patch.CategoryID
		}
		if patch.SKU != nil {
			updates["sku"] = normalizeSKU(patch.SKU)
		}
		if patch.PurchasePrice != nil {
			updates["purchase_price"] = *patch.PurchasePrice
		}
		if patch.SellingPrice != nil {
			updates["selling_price"] = *patch.SellingPrice
		}
		if patch.UnitOfMeasurement != nil {
			updates["unit_of_measurement"] = *patch.UnitOfMeasurement
		}
		if patch.LowStockThreshold != nil {
			updates["low_stock_threshold"] = *patch.LowStockThreshold
		}
		if patch.IsActive != nil {
			updates["is_active"] = *patch.IsActive
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&product).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return GetProduct(db, productID)
}

// SetProductImage stores the S3 key of the product's photo, replacing
// any previous one. An empty key clears the photo.
func SetProductImage(db *gorm.DB, productID uint, s3Key string) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product", ID: productID}
		}
		return nil, err
	}

	var value *string
	if s3Key != "" {
		value = &s3Key
	}
	if err := db.Model(&product).Update("image_s3_key", value).Error; err != nil {
		return nil, err
	}

	product.ImageS3Key = value
	return &product, nil
}

// DeleteProduct soft-deletes by default (is_active=false). With
// permanent=true the row is removed entirely; that fails when order
// items still reference the product.
func DeleteProduct(db *gorm.DB, productID uint, permanent bool) error {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "product", ID: productID}
		}
		return err
	}

	if !permanent {
		return db.Model(&product).Update("is_active", false).Error
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var itemCount int64
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&itemCount).Error; err != nil {
			return err
		}
		if itemCount > 0 {
			return &InvalidInputError{Message: "product has order history and cannot be permanently deleted"}
		}

		// The ledger cascades with the product; order items restrict above.
		if err := tx.Where("product_id = ?", productID).Delete(&models.InventoryLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
}
