package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"oms-backend/internal/model"
	"oms-backend/pkg/database"
	"oms-backend/pkg/logger"
	"oms-backend/prometheus"
)

// DashboardStats handles GET /api/dashboard-stats. Sales reps see figures
// for their own orders only.
func DashboardStats(c echo.Context) error {
	log := logger.FromContext(c)
	act, err := actor(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("aggregate")(time.Now())
	db := database.GetDB()

	scoped := func(status model.OrderStatus) *gorm.DB {
		q := db.Model(&model.Order{}).Where("status = ?", status)
		if act.Role == model.RoleSalesRep {
			q = q.Where("created_by_id = ?", act.UserID)
		}
		return q
	}

	sumTotal := func(status model.OrderStatus) (decimal.Decimal, error) {
		var total decimal.NullDecimal
		err := scoped(status).Select("SUM(total_amount)").Scan(&total).Error
		if err != nil || !total.Valid {
			return decimal.Zero, err
		}
		return total.Decimal, nil
	}

	totalRevenue, err := sumTotal(model.StatusSettled)
	if err != nil {
		log.Error("Failed to aggregate revenue", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute dashboard stats"})
	}

	// Cash on hand: delivered but not yet settled.
	cashOnHand, err := sumTotal(model.StatusDelivered)
	if err != nil {
		log.Error("Failed to aggregate cash on hand", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute dashboard stats"})
	}

	var pendingOrders int64
	if err := scoped(model.StatusPendingApproval).Count(&pendingOrders).Error; err != nil {
		log.Error("Failed to count pending orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute dashboard stats"})
	}

	var lowStock int64
	if err := db.Model(&model.Product{}).Where("stock_quantity < ?", lowStockThreshold).Count(&lowStock).Error; err != nil {
		log.Error("Failed to count low stock products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute dashboard stats"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total_revenue":   totalRevenue,
		"pending_orders":  pendingOrders,
		"low_stock_items": lowStock,
		"cash_on_hand":    cashOnHand,
	})
}
