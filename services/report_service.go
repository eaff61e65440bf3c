package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/aditwicaksono/warung-pos-api/models"
)

// DailySales is one point of the dashboard sales chart
type DailySales struct {
	Name  string  `json:"name"` // abbreviated weekday
	Sales float64 `json:"sales"`
}

// TopProduct is one row of the top-selling-products rollup
type TopProduct struct {
	Name              string `json:"name"`
	TotalQuantitySold int    `json:"total_quantity_sold"`
}

// CategorySales is one row of the sales-by-category rollup
type CategorySales struct {
	Name       string  `json:"name"`
	TotalSales float64 `json:"total_sales"`
}

// DashboardSummary aggregates the read-only rollups shown on the dashboard
type DashboardSummary struct {
	TotalSalesMonth        float64         `json:"total_sales_month"`
	TotalTransactionsMonth int64           `json:"total_transactions_month"`
	ActiveProducts         int64           `json:"active_products"`
	CriticalStockProducts  int64           `json:"critical_stock_products"`
	SalesChartData         []DailySales    `json:"sales_chart_data"`
	TopSellingProducts     []TopProduct    `json:"top_selling_products"`
	SalesByCategory        []CategorySales `json:"sales_by_category"`
}

// GetDashboardSummary computes month-to-date sales totals, product
// counts, a 7-day sales series and the month's top products and
// category breakdown. Only completed orders count toward sales.
func GetDashboardSummary(db *gorm.DB) (*DashboardSummary, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	summary := &DashboardSummary{
		SalesChartData:     make([]DailySales, 0, 7),
		TopSellingProducts: []TopProduct{},
		SalesByCategory:    []CategorySales{},
	}

	completedThisMonth := db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted).
		Where("created_at >= ?", startOfMonth)

	var totalSales *float64
	if err := completedThisMonth.Session(&gorm.Session{}).
		Select("SUM(total_amount)").Scan(&totalSales).Error; err != nil {
		return nil, err
	}
	if totalSales != nil {
		summary.TotalSalesMonth = *totalSales
	}

	if err := completedThisMonth.Session(&gorm.Session{}).
		Count(&summary.TotalTransactionsMonth).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&summary.ActiveProducts).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Where("low_stock_threshold > 0").
		Where("current_stock <= low_stock_threshold").
		Count(&summary.CriticalStockProducts).Error; err != nil {
		return nil, err
	}

	// Last 7 days, oldest first, including today.
	for i := 6; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)

		var daily *float64
		if err := db.Model(&models.Order{}).
			Where("status = ?", models.OrderStatusCompleted).
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Select("SUM(total_amount)").Scan(&daily).Error; err != nil {
			return nil, err
		}

		point := DailySales{Name: dayStart.Format("Mon")}
		if daily != nil {
			point.Sales = *daily
		}
		summary.SalesChartData = append(summary.SalesChartData, point)
	}

	if err := db.Model(&models.OrderItem{}).
		Select("products.name AS name, SUM(order_items.quantity) AS total_quantity_sold").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ?", models.OrderStatusCompleted).
		Where("orders.created_at >= ?", startOfMonth).
		Group("products.name").
		Order("total_quantity_sold DESC").
		Limit(5).
		Scan(&summary.TopSellingProducts).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.OrderItem{}).
		Select("categories.name AS name, SUM(order_items.subtotal) AS total_sales").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("orders.status = ?", models.OrderStatusCompleted).
		Where("orders.created_at >= ?", startOfMonth).
		Group("categories.name").
		Order("total_sales DESC").
		Scan(&summary.SalesByCategory).Error; err != nil {
		return nil, err
	}

	return summary, nil
}

// SalesReport summarizes completed sales inside a date range
type SalesReport struct {
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	TotalSales        float64   `json:"total_sales"`
	TotalTransactions int64     `json:"total_transactions"`
	TotalItemsSold    int64     `json:"total_items_sold"`
}

// GetSalesReport returns completed sales totals for [start, end]
func GetSalesReport(db *gorm.DB, start, end time.Time) (*SalesReport, error) {
	if end.Before(start) {
		return nil, &InvalidInputError{Message: "end date cannot be before start date"}
	}

	report := &SalesReport{StartDate: start, EndDate: end}

	completed := db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted).
		Where("created_at >= ? AND created_at <= ?", start, end)

	var totalSales *float64
	if err := completed.Session(&gorm.Session{}).
		Select("SUM(total_amount)").Scan(&totalSales).Error; err != nil {
		return nil, err
	}
	if totalSales != nil {
		report.TotalSales = *totalSales
	}

	if err := completed.Session(&gorm.Session{}).
		Count(&report.TotalTransactions).Error; err != nil {
		return nil, err
	}

	var itemsSold *int64
	if err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ?", models.OrderStatusCompleted).
		Where("orders.created_at >= ? AND orders.created_at <= ?", start, end).
		Select("SUM(order_items.quantity)").Scan(&itemsSold).Error; err != nil {
		return nil, err
	}
	if itemsSold != nil {
		report.TotalItemsSold = *itemsSold
	}

	return report, nil
}
