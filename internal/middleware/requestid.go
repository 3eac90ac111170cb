package middleware

import (
	"oms-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware assigns every request a fresh UUID, echoes it on
// the response and stores a request-scoped logger carrying it, which is
// what logger.FromContext hands to the handlers.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := uuid.New().String()

		c.Request().Header.Set(logger.RequestIDKey, requestID)
		c.Response().Header().Set(logger.RequestIDKey, requestID)
		c.Set("request_id", requestID)

		c.Set("logger", logger.GetLogger().With(zap.String("request_id", requestID)))

		return next(c)
	}
}
