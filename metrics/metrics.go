package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Order metrics
	OrdersCreatedTotal *prometheus.CounterVec
	OrderCreateErrors  *prometheus.CounterVec

	// Stock metrics
	StockOperationsTotal *prometheus.CounterVec
	ProductStockGauge    *prometheus.GaugeVec

	// Authentication metrics
	AuthAttemptsTotal prometheus.Counter
	AuthFailuresTotal prometheus.Counter
)

// Init registers all Prometheus collectors under the given prefix.
// It must be called once before the middleware or services record
// anything.
func Init(prefix string) {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	OrdersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_orders_created_total",
			Help: "Total number of orders created",
		},
		[]string{"source", "status"},
	)

	OrderCreateErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_create_errors_total",
			Help: "Total number of failed order creation attempts",
		},
		[]string{"reason"},
	)

	StockOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_stock_operations_total",
			Help: "Total number of stock operations",
		},
		[]string{"change_type"},
	)

	ProductStockGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_stock",
			Help: "Current stock level per product",
		},
		[]string{"product_id", "product_name"},
	)

	AuthAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	AuthFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_failures_total",
			Help: "Total number of failed login attempts",
		},
	)
}

// RecordOrderCreated increments the created-orders counter
func RecordOrderCreated(source, status string) {
	if OrdersCreatedTotal != nil {
		OrdersCreatedTotal.WithLabelValues(source, status).Inc()
	}
}

// RecordOrderError increments the failed-order counter
func RecordOrderError(reason string) {
	if OrderCreateErrors != nil {
		OrderCreateErrors.WithLabelValues(reason).Inc()
	}
}

// RecordStockOperation increments the stock-operation counter
func RecordStockOperation(changeType string) {
	if StockOperationsTotal != nil {
		StockOperationsTotal.WithLabelValues(changeType).Inc()
	}
}

// UpdateProductStock sets the stock gauge for a product
func UpdateProductStock(productID uint, productName string, stock int) {
	if ProductStockGauge != nil {
		ProductStockGauge.WithLabelValues(strconv.FormatUint(uint64(productID), 10), productName).Set(float64(stock))
	}
}

// RecordAuthAttempt increments the login-attempt counter
func RecordAuthAttempt() {
	if AuthAttemptsTotal != nil {
		AuthAttemptsTotal.Inc()
	}
}

// RecordAuthFailure increments the failed-login counter
func RecordAuthFailure() {
	if AuthFailuresTotal != nil {
		AuthFailuresTotal.Inc()
	}
}

// TrackRequest records a completed HTTP request
func TrackRequest(method, path string, status int, start time.Time) {
	if HTTPRequestsTotal == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())
}
