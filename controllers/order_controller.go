package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aditwicaksono/warung-pos-api/config"
	"github.com/aditwicaksono/warung-pos-api/logger"
	"github.com/aditwicaksono/warung-pos-api/middleware"
	"github.com/aditwicaksono/warung-pos-api/models"
	"github.com/aditwicaksono/warung-pos-api/services"
)

// OrderItemRequest is one line of a create-order request
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod *string            `json:"payment_method"`
	Notes         *string            `json:"notes"`
}

// UpdateOrderStatusRequest represents the request body for a status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders - creates an order with its
// items, deducting stock atomically
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var userID *uint
	if id, err := middleware.GetUserID(c); err == nil {
		userID = &id
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := services.CreateOrder(config.GetDB(), services.OrderCreateInput{
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		Source:        models.OrderSourceDashboard,
		Notes:         req.Notes,
		UserID:        userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.FromContext(c).Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total_amount", order.TotalAmount),
		zap.Int("items", len(order.Items)))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders
func ListOrders(c *gin.Context) {
	page, limit := paginationParams(c)

	filters := services.OrderListFilters{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
	if userID := c.Query("user_id"); userID != "" {
		if id, err := strconv.ParseUint(userID, 10, 32); err == nil {
			uid := uint(id)
			filters.UserID = &uid
		}
	}
	if start := c.Query("start_date"); start != "" {
		if t, err := time.Parse("2006-01-02", start); err == nil {
			filters.StartDate = &t
		}
	}
	if end := c.Query("end_date"); end != "" {
		if t, err := time.Parse("2006-01-02", end); err == nil {
			// Inclusive through the end of the day.
			endOfDay := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			filters.EndDate = &endOfDay
		}
	}

	orders, total, err := services.ListOrders(config.GetDB(), filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   total,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	orderID, ok := idParam(c)
	if !ok {
		return
	}

	order, err := services.GetOrder(config.GetDB(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status. Cancelling
// an order returns its stock to the catalog.
func UpdateOrderStatus(c *gin.Context) {
	orderID, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := services.UpdateOrderStatus(config.GetDB(), orderID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.FromContext(c).Info("order status updated",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
