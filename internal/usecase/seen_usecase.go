package usecase

import (
	"context"

	"chatline/internal/domain/repository"
	"chatline/pkg/errors"
	"chatline/pkg/logger"
)

type SeenUseCase struct {
	chatRepo repository.ChatRepository
	notifier Notifier
}

func NewSeenUseCase(chatRepo repository.ChatRepository, notifier Notifier) *SeenUseCase {
	return &SeenUseCase{
		chatRepo: chatRepo,
		notifier: notifier,
	}
}

type MessagesSeenEvent struct {
	UserID        string `json:"user_id"`
	UptoTimestamp int64  `json:"upto_timestamp"`
}

// MarkSeen marks every unseen message in the chat up to the timestamp
// cursor, skipping the reader's own messages. Re-invoking with the same or
// an earlier cursor is a no-op since the selection excludes seen messages.
func (uc *SeenUseCase) MarkSeen(ctx context.Context, chatID, userID string, uptoTimestamp int64) error {
	if userID == "" {
		return errors.BadRequest("user_id is required", nil)
	}
	if uptoTimestamp <= 0 {
		return errors.BadRequest("upto_timestamp is required", nil)
	}

	count, err := uc.chatRepo.MarkMessagesSeen(ctx, chatID, userID, uptoTimestamp)
	if err != nil {
		logger.Error("MarkSeen: failed for chat %s user %s: %v", chatID, userID, err)
		return err
	}

	logger.Debug("MarkSeen: %d messages marked seen in chat %s by %s", count, chatID, userID)

	uc.notifier.Publish(chatID, EventMessagesSeen, MessagesSeenEvent{
		UserID:        userID,
		UptoTimestamp: uptoTimestamp,
	})

	return nil
}
