package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"chatline/internal/usecase"
	"chatline/pkg/errors"
	"chatline/pkg/response"
)

type ChatHandler struct {
	messageUseCase  *usecase.MessageUseCase
	queryUseCase    *usecase.QueryUseCase
	seenUseCase     *usecase.SeenUseCase
	deletionUseCase *usecase.DeletionUseCase
}

func NewChatHandler(
	messageUseCase *usecase.MessageUseCase,
	queryUseCase *usecase.QueryUseCase,
	seenUseCase *usecase.SeenUseCase,
	deletionUseCase *usecase.DeletionUseCase,
) *ChatHandler {
	return &ChatHandler{
		messageUseCase:  messageUseCase,
		queryUseCase:    queryUseCase,
		seenUseCase:     seenUseCase,
		deletionUseCase: deletionUseCase,
	}
}

type sendMessageRequest struct {
	SenderID           string `json:"sender_id" validate:"required"`
	SenderName         string `json:"sender_name" validate:"required"`
	SenderProfilePic   string `json:"sender_profile_pic" validate:"required"`
	ReceiverID         string `json:"receiver_id" validate:"required"`
	ReceiverName       string `json:"receiver_name" validate:"required"`
	ReceiverProfilePic string `json:"receiver_profile_pic" validate:"required"`
	Body               string `json:"body" validate:"required"`
	Timestamp          int64  `json:"timestamp" validate:"required,gt=0"`
}

type markSeenRequest struct {
	UserID        string `json:"user_id" validate:"required"`
	UptoTimestamp int64  `json:"upto_timestamp" validate:"required,gt=0"`
}

type deleteMessageRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	ForEveryone bool   `json:"for_everyone"`
}

type deleteChatRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// SendMessage stores a message and updates both participants' chat lists.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.messageUseCase.SendMessage(c.Request().Context(), usecase.SendMessageInput{
		SenderID:           req.SenderID,
		SenderName:         req.SenderName,
		SenderProfilePic:   req.SenderProfilePic,
		ReceiverID:         req.ReceiverID,
		ReceiverName:       req.ReceiverName,
		ReceiverProfilePic: req.ReceiverProfilePic,
		Body:               req.Body,
		Timestamp:          req.Timestamp,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

// GetChatMessages returns a page of messages for a chat, newest first.
func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	chatID := c.Param("chatId")
	requestingUserID := c.QueryParam("requesting_user_id")

	var beforeTimestamp int64
	if beforeStr := c.QueryParam("before_timestamp"); beforeStr != "" {
		parsed, err := strconv.ParseInt(beforeStr, 10, 64)
		if err != nil {
			return response.Error(c, errors.BadRequest("before_timestamp must be an integer", err))
		}
		beforeTimestamp = parsed
	}

	messages, err := h.queryUseCase.ListMessages(c.Request().Context(), chatID, requestingUserID, beforeTimestamp)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"messages": messages,
	})
}

// MarkSeen marks messages in the chat as seen up to a timestamp cursor.
func (h *ChatHandler) MarkSeen(c echo.Context) error {
	chatID := c.Param("chatId")

	var req markSeenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.seenUseCase.MarkSeen(c.Request().Context(), chatID, req.UserID, req.UptoTimestamp); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Messages marked as seen",
	})
}

// GetUserChats returns the user's chat list, most recent first.
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID := c.Param("userId")

	chats, err := h.queryUseCase.ListChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"chats": chats,
	})
}

// DeleteMessage deletes a message for everyone or hides it for the caller.
func (h *ChatHandler) DeleteMessage(c echo.Context) error {
	chatID := c.Param("chatId")
	messageID := c.Param("messageId")

	var req deleteMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	err := h.deletionUseCase.DeleteMessage(c.Request().Context(), chatID, messageID, req.UserID, req.ForEveryone)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Message deleted",
	})
}

// DeleteChat removes the chat from the caller's chat list only.
func (h *ChatHandler) DeleteChat(c echo.Context) error {
	chatID := c.Param("chatId")

	var req deleteChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.deletionUseCase.DeleteChat(c.Request().Context(), chatID, req.UserID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Chat deleted",
	})
}
