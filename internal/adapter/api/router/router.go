package router

import (
	"github.com/labstack/echo/v4"

	"chatline/internal/adapter/api/handler"
)

func Setup(e *echo.Echo, chatHandler *handler.ChatHandler, wsHandler *handler.WebSocketHandler, healthHandler *handler.HealthHandler) {
	SetupHealthRouter(e, healthHandler)
	SetupChatRouter(e, chatHandler)
	SetupWebSocketRouter(e, wsHandler)
}
