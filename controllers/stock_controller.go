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

// StockInRequest represents the request body for receiving stock
type StockInRequest struct {
	ProductID     uint     `json:"product_id" binding:"required"`
	Quantity      int      `json:"quantity" binding:"required,gt=0"`
	Remarks       *string  `json:"remarks"`
	PurchasePrice *float64 `json:"purchase_price" binding:"omitempty,gte=0"`
}

// StockAdjustmentRequest represents the request body for a stock correction
type StockAdjustmentRequest struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	NewQuantity *int   `json:"new_quantity" binding:"required,gte=0"`
	Remarks     string `json:"remarks" binding:"required"`
}

// StockIn handles POST /api/v1/inventory/stock-in - records incoming
// stock from a supplier
func StockIn(c *gin.Context) {
	var req StockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var userID *uint
	if id, err := middleware.GetUserID(c); err == nil {
		userID = &id
	}

	logEntry, err := services.AddStock(config.GetDB(), services.StockInInput{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		Remarks:       req.Remarks,
		PurchasePrice: req.PurchasePrice,
		UserID:        userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.FromContext(c).Info("stock received",
		zap.Uint("product_id", logEntry.ProductID),
		zap.Int("quantity", req.Quantity),
		zap.Int("current_stock", logEntry.StockAfter))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    logEntry,
	})
}

// AdjustStock handles POST /api/v1/inventory/adjustment - corrects the
// stock level after a physical count. Admin only.
func AdjustStock(c *gin.Context) {
	var req StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var userID *uint
	if id, err := middleware.GetUserID(c); err == nil {
		userID = &id
	}

	logEntry, err := services.AdjustStock(config.GetDB(), services.StockAdjustmentInput{
		ProductID:   req.ProductID,
		NewQuantity: *req.NewQuantity,
		Remarks:     req.Remarks,
		UserID:      userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.FromContext(c).Info("stock adjusted",
		zap.Uint("product_id", logEntry.ProductID),
		zap.Int("new_quantity", *req.NewQuantity))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    logEntry,
	})
}

// ListInventoryLogs handles GET /api/v1/inventory/logs/:product_id -
// the append-only stock ledger for one product, most recent first
func ListInventoryLogs(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "product_id must be a positive integer",
			},
		})
		return
	}

	page, limit := paginationParams(c)

	logs, total, err := services.GetInventoryLogs(config.GetDB(), uint(productID), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   total,
		"data":    logs,
	})
}
