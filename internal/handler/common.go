package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"oms-backend/internal/middleware"
	"oms-backend/internal/model"
	"oms-backend/internal/storage/postgres"
	"oms-backend/pkg/config"
	"oms-backend/pkg/database"
)

var (
	invoiceCurrency   = "EGP"
	lowStockThreshold = 10
)

// Init applies handler configuration knobs.
func Init(cfg *config.Config) {
	invoiceCurrency = cfg.Invoice.Currency
	lowStockThreshold = cfg.Dashboard.LowStockThreshold
}

// store returns the persistence port over the shared database handle.
func store() model.Store {
	return postgres.New(database.GetDB())
}

// actor pulls the authenticated caller set by the auth middleware. The
// returned error is non-nil so a handler reached without the middleware
// stops instead of proceeding with a zero-valued caller.
func actor(c echo.Context) (model.Actor, error) {
	a, ok := middleware.ActorFromContext(c)
	if !ok {
		return model.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return a, nil
}

// paramID parses the :id route parameter.
func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// errorJSON translates core errors into client-facing responses.
func errorJSON(c echo.Context, log *zap.Logger, err error) error {
	var (
		validationErr    *model.ValidationError
		authorizationErr *model.AuthorizationError
		stockErr         *model.InsufficientStockError
	)
	switch {
	case errors.As(err, &stockErr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":     stockErr.Error(),
			"product":   stockErr.ProductID,
			"available": stockErr.Available,
		})
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationErr.Error()})
	case errors.As(err, &authorizationErr):
		return c.JSON(http.StatusForbidden, echo.Map{"error": authorizationErr.Error()})
	case errors.Is(err, model.ErrOrderNotApproved):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrOrderNotFound),
		errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrCustomerNotFound),
		errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrInvoiceNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	default:
		log.Error("Unhandled error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
