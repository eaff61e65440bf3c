package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aditwicaksono/warung-pos-api/config"
	"github.com/aditwicaksono/warung-pos-api/logger"
	"github.com/aditwicaksono/warung-pos-api/middleware"
	"github.com/aditwicaksono/warung-pos-api/services"
)

// ProductRequest represents the request body for creating a product
type ProductRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       *string `json:"description"`
	CategoryID        *uint   `json:"category_id"`
	SKU               *string `json:"sku"`
	PurchasePrice     float64 `json:"purchase_price" binding:"gte=0"`
	SellingPrice      float64 `json:"selling_price" binding:"gte=0"`
	CurrentStock      int     `json:"current_stock" binding:"gte=0"`
	UnitOfMeasurement string  `json:"unit_of_measurement"`
	LowStockThreshold int     `json:"low_stock_threshold" binding:"gte=0"`
}

// UpdateProductRequest represents the request body for patching a product.
// current_stock is not accepted here; stock changes go through the
// stock endpoints so every change lands in the ledger.
type UpdateProductRequest struct {
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	CategoryID        *uint    `json:"category_id"`
	SKU               *string  `json:"sku"`
	PurchasePrice     *float64 `json:"purchase_price" binding:"omitempty,gte=0"`
	SellingPrice      *float64 `json:"selling_price" binding:"omitempty,gte=0"`
	UnitOfMeasurement *string  `json:"unit_of_measurement"`
	LowStockThreshold *int     `json:"low_stock_threshold" binding:"omitempty,gte=0"`
	IsActive          *bool    `json:"is_active"`
}

// CreateProduct handles POST /api/v1/products (admin only)
func CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var userID *uint
	if id, err := middleware.GetUserID(c); err == nil {
		userID = &id
	}

	product, err := services.CreateProduct(config.GetDB(), services.ProductCreateInput{
		Name:              req.Name,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		SKU:               req.SKU,
		PurchasePrice:     req.PurchasePrice,
		SellingPrice:      req.SellingPrice,
		CurrentStock:      req.CurrentStock,
		UnitOfMeasurement: req.UnitOfMeasurement,
		LowStockThreshold: req.LowStockThreshold,
		UserID:            userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.FromContext(c).Info("product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// ListProducts handles GET /api/v1/products
func ListProducts(c *gin.Context) {
	page, limit := paginationParams(c)

	filters := services.ProductListFilters{
		Search:     c.Query("search"),
		OnlyActive: c.DefaultQuery("only_active", "true") != "false",
		Page:       page,
		Limit:      limit,
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		if id, err := strconv.ParseUint(categoryID, 10, 32); err == nil {
			cid := uint(id)
			filters.CategoryID = &cid
		}
	}

	products, total, err := services.ListProducts(config.GetDB(), filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   total,
		"data":    products,
	})
}

// ListLowStockProducts handles GET /api/v1/products/low-stock
func ListLowStockProducts(c *gin.Context) {
	products, err := services.ListLowStockProducts(config.GetDB())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct handles GET /api/v1/products/:id
func GetProduct(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		return
	}

	product, err := services.GetProduct(config.GetDB(), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Attach a presigned photo URL when the product has one and a
	// storage backend is configured.
	if product.ImageS3Key != nil {
		if storage := services.GetImageStorage(); storage != nil {
			if url, err := storage.GetImageURL(*product.ImageS3Key); err == nil && url != "" {
				product.ImageURL = &url
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/v1/products/:id (admin only)
func UpdateProduct(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := services.UpdateProduct(config.GetDB(), productID, services.ProductPatch{
		Name:              req.Name,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		SKU:               req.SKU,
		PurchasePrice:     req.PurchasePrice,
		SellingPrice:      req.SellingPrice,
		UnitOfMeasurement: req.UnitOfMeasurement,
		LowStockThreshold: req.LowStockThreshold,
		IsActive:          req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/v1/products/:id (admin only).
// Soft-deletes by default; ?permanent=true removes the row when no
// order history references it.
func DeleteProduct(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		return
	}

	permanent := c.Query("permanent") == "true"
	if err := services.DeleteProduct(config.GetDB(), productID, permanent); err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Product deactivated"
	if permanent {
		message = "Product permanently deleted"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}
