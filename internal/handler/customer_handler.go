package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"oms-backend/internal/model"
	"oms-backend/pkg/database"
	"oms-backend/pkg/logger"
)

// totalPurchasesSelect annotates each customer with the summed totals of
// its delivered and settled orders.
const totalPurchasesSelect = `customers.*, COALESCE((` +
	`SELECT SUM(o.total_amount) FROM orders o ` +
	`WHERE o.customer_id = customers.id AND o.status IN ('DELIVERED','SETTLED')` +
	`), 0) AS total_purchases`

// CustomerRequest defines the structure for customer creation/update requests
type CustomerRequest struct {
	Name        string `json:"name"`
	City        string `json:"city"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// ListCustomers handles retrieving all customers
func ListCustomers(c echo.Context) error {
	log := logger.FromContext(c)

	var customers []model.Customer
	result := database.GetDB().Model(&model.Customer{}).Select(totalPurchasesSelect).Find(&customers)
	if result.Error != nil {
		log.Error("Failed to list customers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve customers"})
	}

	return c.JSON(http.StatusOK, customers)
}

// GetCustomer handles retrieving a single customer by ID
func GetCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var customer model.Customer
	result := database.GetDB().Model(&model.Customer{}).Select(totalPurchasesSelect).
		Where("customers.id = ?", id).First(&customer)
	if result.Error != nil {
		log.Warn("Customer not found", zap.String("customer_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}

	return c.JSON(http.StatusOK, customer)
}

// CreateCustomer handles creating a new customer
func CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	customer := model.Customer{
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}
	result := database.GetDB().Create(&customer)
	if result.Error != nil {
		log.Error("Failed to create customer", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create customer"})
	}

	log.Info("Customer created successfully",
		zap.Uint("customer_id", customer.ID),
		zap.String("name", customer.Name))
	return c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer handles updating an existing customer. Admin only.
func UpdateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}
	if !act.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins can edit customers"})
	}
	id := c.Param("id")

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("customer_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var customer model.Customer
	result := database.GetDB().First(&customer, id)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}

	customer.Name = req.Name
	customer.City = req.City
	customer.Address = req.Address
	customer.PhoneNumber = req.PhoneNumber

	if result := database.GetDB().Save(&customer); result.Error != nil {
		log.Error("Failed to update customer", zap.String("customer_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update customer"})
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles deleting a customer. Admin only.
func DeleteCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}
	if !act.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only admins can delete customers"})
	}
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Customer{}, id)
	if result.Error != nil {
		log.Error("Failed to delete customer", zap.String("customer_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete customer"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Customer deleted successfully"})
}
