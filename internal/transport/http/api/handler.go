// Package api provides the JSON HTTP handlers of the chat service.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/memorychat/internal/adapter/llm"
)

// ChatService is the part of the service the handlers use.
type ChatService interface {
	Chat(ctx context.Context, sessionID, message string) (string, error)
	Reset(ctx context.Context, sessionID string) error
	ListModels(ctx context.Context) ([]llm.Model, error)
}

// Handler handles HTTP requests.
type Handler struct {
	service ChatService
}

// NewHandler creates a new handler.
func NewHandler(service ChatService) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers API routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/chat", h.Chat)
	e.POST("/api/reset", h.Reset)
	e.GET("/api/models", h.ListModels)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
