package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"oms-backend/internal/model"
	"oms-backend/pkg/jwtutil"
	"oms-backend/pkg/logger"
)

const actorContextKey = "actor"

// AuthMiddleware validates the JWT token and puts the caller's identity
// and role into the request context.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Every operation is role-gated, so a token without a role is unusable
		if claims.Role == "" {
			log.Warn("JWT token does not contain a role")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "role is required in the token"})
		}

		c.Set(actorContextKey, model.Actor{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     model.Role(claims.Role),
		})

		log.Info("Request authenticated",
			zap.Uint("user_id", claims.UserID),
			zap.String("username", claims.Username),
			zap.String("role", claims.Role))

		return next(c)
	}
}

// ActorFromContext retrieves the authenticated caller from the context.
func ActorFromContext(c echo.Context) (model.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(model.Actor)
	return actor, ok
}
