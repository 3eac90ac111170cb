package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"oms-backend/internal/handler"
	mid "oms-backend/internal/middleware"
	"oms-backend/pkg/config"
	"oms-backend/pkg/database"
	"oms-backend/pkg/jwtutil"
	"oms-backend/pkg/logger"
	"oms-backend/prometheus"
)

func main() {
	// Load configuration (reads .env when present)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting oms-backend",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	err = database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Handler configuration (invoice currency, dashboard thresholds)
	handler.Init(appConfig)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Product API routes
	productAPI := e.Group("/api/products", mid.AuthMiddleware)
	productAPI.GET("", handler.ListProducts)
	productAPI.GET("/:id", handler.GetProduct)
	productAPI.POST("", handler.CreateProduct)
	productAPI.PUT("/:id", handler.UpdateProduct)
	productAPI.DELETE("/:id", handler.DeleteProduct)

	// Customer API routes
	customerAPI := e.Group("/api/customers", mid.AuthMiddleware)
	customerAPI.GET("", handler.ListCustomers)
	customerAPI.GET("/:id", handler.GetCustomer)
	customerAPI.POST("", handler.CreateCustomer)
	customerAPI.PUT("/:id", handler.UpdateCustomer)
	customerAPI.DELETE("/:id", handler.DeleteCustomer)

	// Order API routes
	orderAPI := e.Group("/api/orders", mid.AuthMiddleware)
	orderAPI.GET("", handler.ListOrders)
	orderAPI.GET("/:id", handler.GetOrder)
	orderAPI.POST("", handler.CreateOrder)
	orderAPI.PUT("/:id", handler.UpdateOrder)
	orderAPI.POST("/:id/status", handler.TransitionOrder)
	orderAPI.POST("/:id/invoice", handler.GenerateInvoice)
	orderAPI.GET("/:id/invoices", handler.ListInvoices)

	// Dashboard API routes
	e.GET("/api/dashboard-stats", handler.DashboardStats, mid.AuthMiddleware)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
