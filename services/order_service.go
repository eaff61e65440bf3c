package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aditwicaksono/warung-pos-api/metrics"
	"github.com/aditwicaksono/warung-pos-api/models"
)

const (
	orderNumberPrefix      = "INV"
	orderNumberSuffixLen   = 6
	orderNumberMaxAttempts = 10
)

const orderNumberAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// ErrOrderNumberExhausted is returned when a unique order number could
// not be generated within the attempt cap. The suffix space is large
// enough that hitting this indicates datastore corruption, not bad luck.
var ErrOrderNumberExhausted = errors.New("could not generate a unique order number")

// GenerateOrderNumber produces a human-readable order number of the
// form INV-YYYYMMDD-XXXXXX with a random alphanumeric suffix.
func GenerateOrderNumber() string {
	datePrefix := time.Now().Format("20060102")

	suffix := make([]byte, orderNumberSuffixLen)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderNumberAlphabet))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is
			// broken; at that point the process cannot do useful work.
			panic(fmt.Sprintf("failed to read random bytes: %v", err))
		}
		suffix[i] = orderNumberAlphabet[n.Int64()]
	}

	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, datePrefix, suffix)
}

// uniqueOrderNumber generates an order number and retries on collision
// against existing orders. Collisions are near-impossible but the check
// is a correctness requirement, not an optimization.
func uniqueOrderNumber(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < orderNumberMaxAttempts; attempt++ {
		number := GenerateOrderNumber()

		var count int64
		if err := tx.Model(&models.Order{}).Where("order_number = ?", number).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", ErrOrderNumberExhausted
}

// OrderItemInput is one requested line of a new order
type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

// OrderCreateInput is the request for creating an order
type OrderCreateInput struct {
	Items         []OrderItemInput
	PaymentMethod *string
	Source        string
	Notes         *string
	UserID        *uint
}

// CreateOrder converts a list of (product, quantity) pairs into a
// durable, stock-consistent order. Validation, pricing, the order
// header and items, stock deduction and sale ledger entries all happen
// in one transaction: a failure on any line item rolls back everything.
func CreateOrder(db *gorm.DB, input OrderCreateInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, &InvalidInputError{Message: "an order requires at least one item"}
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidInputError{Message: "item quantity must be greater than zero"}
		}
	}

	source := input.Source
	if source == "" {
		source = models.OrderSourceDashboard
	}

	var orderID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		totalAmount := 0.0
		orderItems := make([]models.OrderItem, 0, len(input.Items))

		// Validate every line and snapshot prices before touching stock.
		for _, item := range input.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Entity: "product", ID: item.ProductID}
				}
				return err
			}
			if !product.IsActive {
				return &InactiveError{Entity: "product", Name: product.Name}
			}
			if product.CurrentStock < item.Quantity {
				return &InsufficientStockError{
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   product.CurrentStock,
				}
			}

			priceAtTransaction := product.SellingPrice
			subtotal := priceAtTransaction * float64(item.Quantity)
			totalAmount += subtotal

			orderItems = append(orderItems, models.OrderItem{
				ProductID:          item.ProductID,
				Quantity:           item.Quantity,
				PriceAtTransaction: priceAtTransaction,
				Subtotal:           subtotal,
			})
		}

		// Cash sales complete immediately; anything else waits for payment.
		status := models.OrderStatusPending
		if input.PaymentMethod == nil || strings.EqualFold(strings.TrimSpace(*input.PaymentMethod), "cash") {
			status = models.OrderStatusCompleted
		}

		orderNumber, err := uniqueOrderNumber(tx)
		if err != nil {
			return err
		}

		order := models.Order{
			OrderNumber:   orderNumber,
			UserID:        input.UserID,
			TotalAmount:   totalAmount,
			PaymentMethod: input.PaymentMethod,
			Status:        status,
			Source:        source,
			Notes:         input.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		orderID = order.ID

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
			if err := tx.Create(&orderItems[i]).Error; err != nil {
				return err
			}
		}

		// Deduct stock and write one sale ledger row per line. The
		// conditional update inside ApplyStockDelta is the authority on
		// non-negativity; the earlier read is only for error messages.
		for _, item := range orderItems {
			if err := recordSaleDeduction(tx, item, order.ID, input.UserID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		metrics.RecordOrderError(orderErrorReason(err))
		return nil, err
	}

	order, err := GetOrder(db, orderID)
	if err != nil {
		return nil, err
	}

	metrics.RecordOrderCreated(order.Source, order.Status)
	return order, nil
}

// recordSaleDeduction applies the negative stock delta for one sold
// line item and appends the matching sale ledger entry.
func recordSaleDeduction(tx *gorm.DB, item models.OrderItem, orderID uint, userID *uint) error {
	var product models.Product
	if err := tx.First(&product, item.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "product", ID: item.ProductID}
		}
		return err
	}
	stockBefore := product.CurrentStock

	updated, err := ApplyStockDelta(tx, item.ProductID, -item.Quantity)
	if err != nil {
		return err
	}

	remarks := fmt.Sprintf("Sale for order ID %d", orderID)
	transactionID := orderID
	logEntry := models.InventoryLog{
		ProductID:      item.ProductID,
		UserID:         userID,
		TransactionID:  &transactionID,
		ChangeType:     models.ChangeTypeSale,
		QuantityChange: -item.Quantity,
		StockBefore:    stockBefore,
		StockAfter:     updated.CurrentStock,
		Remarks:        &remarks,
	}
	if err := CreateInventoryLog(tx, &logEntry); err != nil {
		return err
	}

	metrics.UpdateProductStock(updated.ID, updated.Name, updated.CurrentStock)
	metrics.RecordStockOperation(models.ChangeTypeSale)
	return nil
}

// UpdateOrderStatus transitions an order to a new status. Cancelling an
// order returns its deducted stock to the catalog: every item gets a
// positive delta and a "return" ledger entry in the same transaction.
func UpdateOrderStatus(db *gorm.DB, orderID uint, newStatus string) (*models.Order, error) {
	if !models.IsValidOrderStatus(newStatus) {
		return nil, &InvalidStatusError{Status: newStatus}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "order", ID: orderID}
			}
			return err
		}

		if newStatus == models.OrderStatusCancelled && order.Status != models.OrderStatusCancelled {
			if err := restockCancelledOrder(tx, &order); err != nil {
				return err
			}
		}

		return tx.Model(&order).Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}

	return GetOrder(db, orderID)
}

// restockCancelledOrder compensates the stock deduction performed at
// order creation. Stock was deducted for every item regardless of the
// order's payment status, so every item is returned.
func restockCancelledOrder(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.Items {
		var product models.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "product", ID: item.ProductID}
			}
			return err
		}
		stockBefore := product.CurrentStock

		updated, err := ApplyStockDelta(tx, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}

		remarks := fmt.Sprintf("Restock from cancelled order %s", order.OrderNumber)
		transactionID := order.ID
		logEntry := models.InventoryLog{
			ProductID:      item.ProductID,
			TransactionID:  &transactionID,
			ChangeType:     models.ChangeTypeReturn,
			QuantityChange: item.Quantity,
			StockBefore:    stockBefore,
			StockAfter:     updated.CurrentStock,
			Remarks:        &remarks,
		}
		if err := CreateInventoryLog(tx, &logEntry); err != nil {
			return err
		}

		metrics.UpdateProductStock(updated.ID, updated.Name, updated.CurrentStock)
		metrics.RecordStockOperation(models.ChangeTypeReturn)
	}
	return nil
}

// GetOrder returns one order with its items, products and processing user
func GetOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("Items.Product.Category").
		Preload("User").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", ID: orderID}
		}
		return nil, err
	}
	return &order, nil
}

// OrderListFilters narrows and paginates an order listing
type OrderListFilters struct {
	Status    string
	UserID    *uint
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// ListOrders returns orders most recent first with the total match count
func ListOrders(db *gorm.DB, filters OrderListFilters) ([]models.Order, int64, error) {
	query := db.Model(&models.Order{})

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.StartDate != nil {
		query = query.Where("created_at >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("created_at <= ?", *filters.EndDate)
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

	var orders []models.Order
	if err := query.
		Preload("Items.Product").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func orderErrorReason(err error) string {
	switch {
	case IsNotFound(err):
		return "product_not_found"
	case IsInsufficientStock(err):
		return "insufficient_stock"
	default:
		var inactive *InactiveError
		if errors.As(err, &inactive) {
			return "product_inactive"
		}
		return "internal"
	}
}
