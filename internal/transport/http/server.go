// Package http assembles the HTTP server of the chat service.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/xiaot623/gogo/memorychat/internal/logging"
	"github.com/xiaot623/gogo/memorychat/internal/session"
	"github.com/xiaot623/gogo/memorychat/internal/transport/http/api"
	"github.com/xiaot623/gogo/memorychat/internal/transport/http/pages"
	"github.com/xiaot623/gogo/memorychat/internal/transport/ws"
)

// Service is what the server needs from the chat service.
type Service interface {
	api.ChatService
	pages.HistoryReader
}

// NewServer creates and configures the public HTTP server: JSON API, pages,
// static assets and the WebSocket endpoint, all behind the session cookie.
func NewServer(svc Service, sessions *session.Manager, wsOpts ws.Options, logger zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := pages.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	// Middleware
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(sessions.Middleware())

	// Handlers
	apiHandler := api.NewHandler(svc)
	pageHandler := pages.NewHandler(svc)
	wsServer := ws.NewServer(wsOpts, svc, logger)

	// Register Routes
	apiHandler.RegisterRoutes(e)
	pageHandler.RegisterRoutes(e)
	wsServer.RegisterRoutes(e)

	return e, nil
}
