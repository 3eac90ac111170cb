package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"oms-backend/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Order lifecycle metrics
	OrderOperationsCounter   prometheus.CounterVec
	OrderTransitionsCounter  prometheus.CounterVec
	TransitionRejectsCounter prometheus.CounterVec

	// Inventory metrics
	StockReservationsCounter prometheus.CounterVec
	InsufficientStockCounter prometheus.Counter
	ProductStockGauge        prometheus.GaugeVec

	// Invoice metrics
	InvoiceGeneratedCounter prometheus.Counter
	InvoiceReusedCounter    prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	OrderOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation"},
	)

	OrderTransitionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_transitions_total",
			Help: "Total number of successful order status transitions",
		},
		[]string{"from", "to"},
	)

	TransitionRejectsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_transition_rejects_total",
			Help: "Total number of rejected order status transitions",
		},
		[]string{"reason"},
	)

	StockReservationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_stock_reservations_total",
			Help: "Total number of stock reserve/release operations",
		},
		[]string{"operation"},
	)

	InsufficientStockCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_insufficient_stock_total",
			Help: "Total number of reservations rejected for insufficient stock",
		},
	)

	ProductStockGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_stock",
			Help: "Current stock level for products",
		},
		[]string{"product_id", "sku"},
	)

	InvoiceGeneratedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_invoices_generated_total",
			Help: "Total number of invoices generated",
		},
	)

	InvoiceReusedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_invoices_reused_total",
			Help: "Total number of invoice requests served by an existing invoice",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordOrderOperation increments the counter for order operations
func RecordOrderOperation(operation string) {
	OrderOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordTransition increments the counter for a successful transition
func RecordTransition(from, to string) {
	OrderTransitionsCounter.WithLabelValues(from, to).Inc()
}

// RecordTransitionReject increments the counter for a rejected transition
func RecordTransitionReject(reason string) {
	TransitionRejectsCounter.WithLabelValues(reason).Inc()
}

// UpdateProductStock updates the gauge for a product's stock level
func UpdateProductStock(productID string, sku string, count float64) {
	ProductStockGauge.WithLabelValues(productID, sku).Set(count)
}
