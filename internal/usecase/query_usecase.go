package usecase

import (
	"context"

	"chatline/internal/domain/entity"
	"chatline/internal/domain/repository"
	"chatline/pkg/errors"
)

const messagePageSize = 50

type QueryUseCase struct {
	chatRepo repository.ChatRepository
}

func NewQueryUseCase(chatRepo repository.ChatRepository) *QueryUseCase {
	return &QueryUseCase{
		chatRepo: chatRepo,
	}
}

// ListMessages returns up to 50 messages newest-first, hiding anything the
// requesting user deleted for themselves. An empty result is a valid
// success. beforeTimestamp <= 0 means no cursor.
func (uc *QueryUseCase) ListMessages(ctx context.Context, chatID, requestingUserID string, beforeTimestamp int64) ([]*entity.Message, error) {
	if requestingUserID == "" {
		return nil, errors.BadRequest("requesting_user_id is required", nil)
	}

	messages, err := uc.chatRepo.ListMessages(ctx, chatID, messagePageSize, beforeTimestamp)
	if err != nil {
		return nil, err
	}

	visible := make([]*entity.Message, 0, len(messages))
	for _, message := range messages {
		if message.DeletedForUser(requestingUserID) {
			continue
		}
		visible = append(visible, message)
	}

	return visible, nil
}

// ListChats returns every chat-list entry for the user, most recent first.
func (uc *QueryUseCase) ListChats(ctx context.Context, userID string) ([]*entity.ChatListEntry, error) {
	if userID == "" {
		return nil, errors.BadRequest("user_id is required", nil)
	}

	entries, err := uc.chatRepo.ListChatsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*entity.ChatListEntry{}
	}

	return entries, nil
}
