package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"oms-backend/internal/model"
	"oms-backend/pkg/database"
	"oms-backend/pkg/logger"
	"oms-backend/prometheus"
)

// lockedStockSelect annotates each product with the quantity reserved by
// orders currently awaiting or holding approval.
const lockedStockSelect = `products.*, COALESCE((` +
	`SELECT SUM(oi.quantity) FROM order_items oi ` +
	`JOIN orders o ON o.id = oi.order_id ` +
	`WHERE oi.product_id = products.id AND o.status IN ('PENDING_APPROVAL','APPROVED')` +
	`), 0) AS locked_stock`

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	SKU           string                `json:"sku"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	StockQuantity int                   `json:"stock_quantity"`
	CostPrice     decimal.Decimal       `json:"cost_price"`
	SellingPrice  decimal.Decimal       `json:"selling_price"`
	Category      model.ProductCategory `json:"category"`
}

// ListProducts handles retrieving all products
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var products []model.Product
	result := database.GetDB().Model(&model.Product{}).Select(lockedStockSelect).Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, productsJSON(products, act.Role))
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}
	id := c.Param("id")

	var product model.Product
	result := database.GetDB().Model(&model.Product{}).Select(lockedStockSelect).
		Where("products.id = ?", id).First(&product)
	if result.Error != nil {
		log.Warn("Product not found", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, productJSON(&product, act.Role))
}

// CreateProduct handles creating a new product. Admin only.
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}
	if !act.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins can manage products"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.SKU == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sku and name are required"})
	}
	if req.StockQuantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock_quantity must not be negative"})
	}

	// Check if product with SKU already exists
	var count int64
	database.GetDB().Model(&model.Product{}).Where("sku = ?", req.SKU).Count(&count)
	if count > 0 {
		log.Warn("Product with this SKU already exists", zap.String("sku", req.SKU))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Product with this SKU already exists"})
	}

	category := req.Category
	if category == "" {
		category = model.CategoryOthers
	}
	product := model.Product{
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		StockQuantity: req.StockQuantity,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
		Category:      category,
	}

	result := database.GetDB().Create(&product)
	if result.Error != nil {
		log.Error("Failed to create product",
			zap.String("sku", req.SKU),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	prometheus.UpdateProductStock(strconv.FormatUint(uint64(product.ID), 10), product.SKU, float64(product.StockQuantity))
	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("sku", product.SKU))
	return c.JSON(http.StatusCreated, productJSON(&product, act.Role))
}

// UpdateProduct handles updating an existing product, including direct
// administrative stock edits. Admin only.
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}
	if !act.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins can manage products"})
	}
	id := c.Param("id")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.StockQuantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock_quantity must not be negative"})
	}

	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found for update", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	// Check if SKU is changed and if new SKU already exists
	if req.SKU != product.SKU {
		var count int64
		database.GetDB().Model(&model.Product{}).Where("sku = ? AND id != ?", req.SKU, id).Count(&count)
		if count > 0 {
			log.Warn("Product with this SKU already exists", zap.String("sku", req.SKU))
			return c.JSON(http.StatusConflict, echo.Map{"error": "Product with this SKU already exists"})
		}
	}

	product.SKU = req.SKU
	product.Name = req.Name
	product.Description = req.Description
	product.StockQuantity = req.StockQuantity
	product.CostPrice = req.CostPrice
	product.SellingPrice = req.SellingPrice
	if req.Category != "" {
		product.Category = req.Category
	}

	result = database.GetDB().Save(&product)
	if result.Error != nil {
		log.Error("Failed to update product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	prometheus.UpdateProductStock(strconv.FormatUint(uint64(product.ID), 10), product.SKU, float64(product.StockQuantity))
	log.Info("Product updated successfully",
		zap.String("product_id", id),
		zap.String("sku", product.SKU),
		zap.Int("stock_quantity", product.StockQuantity))
	return c.JSON(http.StatusOK, productJSON(&product, act.Role))
}

// DeleteProduct handles deleting a product. Admin only.
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}
	if !act.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins can manage products"})
	}
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Product{}, id)
	if result.Error != nil {
		log.Error("Failed to delete product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	log.Info("Product deleted successfully", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
