package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/memorychat/internal/session"
)

// ResetResponse is the success body of POST /api/reset.
type ResetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Reset deletes all stored conversations and the caller's session memory.
// POST /api/reset
func (h *Handler) Reset(c echo.Context) error {
	if err := h.service.Reset(c.Request().Context(), session.ID(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, ResetResponse{
		Success: true,
		Message: "All conversations deleted",
	})
}

// ListModels lists the models of the configured provider.
// GET /api/models
func (h *Handler) ListModels(c echo.Context) error {
	models, err := h.service.ListModels(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"models": models,
	})
}
