package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const RequestIDKey = "X-Request-ID"

// FromContext returns the request-scoped logger placed into the echo
// context by the request ID middleware. Outside a request scope it falls
// back to the global logger, tagged with whatever request ID can be
// recovered from the context or headers.
func FromContext(c echo.Context) *zap.Logger {
	if scoped, ok := c.Get("logger").(*zap.Logger); ok {
		return scoped
	}

	requestID, ok := c.Get(RequestIDKey).(string)
	if !ok || requestID == "" {
		requestID = c.Request().Header.Get(RequestIDKey)
	}
	if requestID == "" {
		requestID = "unknown"
	}
	return GetLogger().With(zap.String("request_id", requestID))
}
