package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "chatline/internal/infrastructure/websocket"
	"chatline/pkg/errors"
	"chatline/pkg/logger"
	"chatline/pkg/response"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // You should restrict this in production
	},
}

func NewWebSocketHandler(wsManager *ws.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
	}
}

// HandleWebSocket upgrades the connection and attaches it to the hub.
// Identity verification lives outside this service; the caller-supplied
// user_id is taken as the connection id.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return response.Error(c, errors.BadRequest("user_id is required", nil))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error response; returning an
		// error here would make echo write a second one.
		logger.Error("websocket upgrade failed for user %s: %v", userID, err)
		return nil
	}

	client := &ws.Client{
		ID:   userID,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
