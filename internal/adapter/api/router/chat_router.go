package router

import (
	"github.com/labstack/echo/v4"

	"chatline/internal/adapter/api/handler"
)

// SetupChatRouter registers the message and chat-list routes.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler) {
	v1 := e.Group("/v1")

	// Messages
	v1.POST("/messages", chatHandler.SendMessage)
	v1.GET("/chats/:chatId/messages", chatHandler.GetChatMessages)
	v1.POST("/chats/:chatId/seen", chatHandler.MarkSeen)
	v1.DELETE("/chats/:chatId/messages/:messageId", chatHandler.DeleteMessage)

	// Chat lists
	v1.GET("/users/:userId/chats", chatHandler.GetUserChats)
	v1.DELETE("/chats/:chatId", chatHandler.DeleteChat)
}
