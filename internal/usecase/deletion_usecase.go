package usecase

import (
	"context"
	"strings"

	"chatline/internal/domain/repository"
	"chatline/pkg/errors"
	"chatline/pkg/logger"
)

type DeletionUseCase struct {
	chatRepo repository.ChatRepository
	notifier Notifier
}

func NewDeletionUseCase(chatRepo repository.ChatRepository, notifier Notifier) *DeletionUseCase {
	return &DeletionUseCase{
		chatRepo: chatRepo,
		notifier: notifier,
	}
}

type MessageDeletedEvent struct {
	MessageID   string `json:"message_id"`
	ForEveryone bool   `json:"for_everyone"`
}

// DeleteMessage removes a message for everyone (sender only) or hides it
// for the calling user. Hiding needs no authorization: any participant may
// hide a message for themselves.
func (uc *DeletionUseCase) DeleteMessage(ctx context.Context, chatID, messageID, userID string, forEveryone bool) error {
	if userID == "" {
		return errors.BadRequest("user_id is required", nil)
	}

	message, err := uc.chatRepo.GetMessageByID(ctx, chatID, messageID)
	if err != nil {
		return err
	}

	if forEveryone {
		if !sameUser(message.SenderID, userID) {
			return errors.Forbidden("Only the sender can delete a message for everyone", nil)
		}
		if err := uc.chatRepo.DeleteMessage(ctx, chatID, messageID); err != nil {
			logger.Error("DeleteMessage: hard delete failed for message %s in chat %s: %v", messageID, chatID, err)
			return err
		}
	} else {
		if err := uc.chatRepo.MarkMessageDeletedFor(ctx, chatID, messageID, userID); err != nil {
			logger.Error("DeleteMessage: soft delete failed for message %s in chat %s: %v", messageID, chatID, err)
			return err
		}
	}

	uc.notifier.Publish(chatID, EventMessageDeleted, MessageDeletedEvent{
		MessageID:   messageID,
		ForEveryone: forEveryone,
	})

	return nil
}

// DeleteChat removes only the calling user's chat-list entry. The room,
// its messages and the other participant's entry are untouched.
func (uc *DeletionUseCase) DeleteChat(ctx context.Context, chatID, userID string) error {
	if userID == "" {
		return errors.BadRequest("user_id is required", nil)
	}

	if _, err := uc.chatRepo.GetChatListEntry(ctx, userID, chatID); err != nil {
		return err
	}

	if err := uc.chatRepo.DeleteChatListEntry(ctx, userID, chatID); err != nil {
		logger.Error("DeleteChat: failed to delete chat list entry %s for user %s: %v", chatID, userID, err)
		return err
	}

	uc.notifier.Publish(chatID, EventChatDeleted, struct{}{})

	return nil
}

func sameUser(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
