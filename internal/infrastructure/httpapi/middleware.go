package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"ConversationViewer/internal/ports"
)

const userIDKey = "userID"

func userID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

// RequireBearer resolves "Authorization: Bearer <token>" to a user id or answers 401.
func RequireBearer(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			}

			id, err := verifier.Verify(c.Request().Context(), token)
			if err != nil || id == "" {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			}

			c.Set(userIDKey, id)
			return next(c)
		}
	}
}

// AccessLog writes one line per request once the response status is known.
func AccessLog(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			logger.Info("request completed",
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", res.Header().Get(echo.HeaderXRequestID),
				"user_id", userID(c),
			)
			return nil
		}
	}
}
