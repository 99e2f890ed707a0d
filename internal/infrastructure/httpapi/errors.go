package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"ConversationViewer/internal/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeError maps domain errors onto status codes; op names the failed action in 500 bodies.
func (h *Handler) writeError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Conversation not found"})
	}

	h.logger.Error("request failed",
		"op", op,
		"path", c.Request().URL.Path,
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"error", err,
	)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to " + op, Details: err.Error()})
}
