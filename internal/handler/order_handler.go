package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"oms-backend/internal/invoice"
	"oms-backend/internal/model"
	"oms-backend/internal/orders"
	"oms-backend/internal/transition"
	"oms-backend/pkg/database"
	"oms-backend/pkg/logger"
	"oms-backend/prometheus"
)

// ListOrders handles retrieving orders, newest first. Sales reps only see
// their own orders; admin and warehouse see everything.
func ListOrders(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	query := database.GetDB().
		Preload("Items.Product").
		Preload("Customer").
		Preload("CreatedBy").
		Order("created_at DESC")
	if act.Role == model.RoleSalesRep {
		query = query.Where("created_by_id = ?", act.UserID)
	}

	var list []model.Order
	if result := query.Find(&list); result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve orders"})
	}

	log.Info("Orders retrieved successfully", zap.Int("count", len(list)))
	return c.JSON(http.StatusOK, ordersJSON(list))
}

// GetOrder handles retrieving a single order by ID
func GetOrder(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	order, err := store().OrderByID(id)
	if err != nil {
		return errorJSON(c, log, err)
	}
	// Order visibility follows the list scoping.
	if act.Role == model.RoleSalesRep && order.CreatedByID != act.UserID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": model.ErrOrderNotFound.Error()})
	}

	return c.JSON(http.StatusOK, orderJSON(order))
}

// CreateOrder handles creating a new order with its lines
func CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}

	var in orders.CreateInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	svc := orders.NewService(store(), log)
	order, err := svc.Create(in, act)
	if err != nil {
		if model.IsInsufficientStock(err) {
			prometheus.InsufficientStockCounter.Inc()
		}
		return errorJSON(c, log, err)
	}

	prometheus.RecordOrderOperation("create")
	if order.Status.Holding() {
		prometheus.StockReservationsCounter.WithLabelValues("reserve").Inc()
	}
	return c.JSON(http.StatusCreated, orderJSON(order))
}

// UpdateOrder handles updating an order; items, when present, replace all
// existing lines.
func UpdateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	var in orders.UpdateInput
	if err := c.Bind(&in); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	svc := orders.NewService(store(), log)
	order, err := svc.Update(id, in, act)
	if err != nil {
		if model.IsInsufficientStock(err) {
			prometheus.InsufficientStockCounter.Inc()
		}
		return errorJSON(c, log, err)
	}

	prometheus.RecordOrderOperation("update")
	return c.JSON(http.StatusOK, orderJSON(order))
}

// TransitionOrder handles POST /api/orders/:id/status
func TransitionOrder(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Status is required"})
	}
	requested, err := model.ParseStatus(req.Status)
	if err != nil {
		prometheus.RecordTransitionReject("invalid_status")
		return errorJSON(c, log, err)
	}

	engine := transition.NewEngine(store(), log)
	order, from, err := engine.Transition(id, requested, act)
	if err != nil {
		var authErr *model.AuthorizationError
		switch {
		case model.IsInsufficientStock(err):
			prometheus.InsufficientStockCounter.Inc()
			prometheus.RecordTransitionReject("insufficient_stock")
		case errors.As(err, &authErr):
			prometheus.RecordTransitionReject("forbidden")
		}
		return errorJSON(c, log, err)
	}

	prometheus.RecordTransition(string(from), string(order.Status))
	switch {
	case !from.Holding() && order.Status.Holding():
		prometheus.StockReservationsCounter.WithLabelValues("reserve").Inc()
	case from.Holding() && !order.Status.Holding():
		prometheus.StockReservationsCounter.WithLabelValues("release").Inc()
	}
	return c.JSON(http.StatusOK, orderJSON(order))
}

// GenerateInvoice handles POST /api/orders/:id/invoice
func GenerateInvoice(c echo.Context) error {
	log := logger.FromContext(c)
	if _, err := actor(c); err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	snapshotter := invoice.NewSnapshotter(store(), invoiceCurrency, log)
	inv, created, err := snapshotter.Generate(id)
	if err != nil {
		return errorJSON(c, log, err)
	}

	if created {
		prometheus.InvoiceGeneratedCounter.Inc()
		return c.JSON(http.StatusCreated, inv)
	}
	prometheus.InvoiceReusedCounter.Inc()
	return c.JSON(http.StatusOK, inv)
}

// ListInvoices handles GET /api/orders/:id/invoices, newest first
func ListInvoices(c echo.Context) error {
	log := logger.FromContext(c)
	if _, err := actor(c); err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	snapshotter := invoice.NewSnapshotter(store(), invoiceCurrency, log)
	invoices, err := snapshotter.List(id)
	if err != nil {
		return errorJSON(c, log, err)
	}

	return c.JSON(http.StatusOK, invoices)
}
