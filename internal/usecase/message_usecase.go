package usecase

import (
	"context"

	"github.com/google/uuid"

	"chatline/internal/domain/entity"
	"chatline/internal/domain/repository"
	"chatline/pkg/errors"
	"chatline/pkg/logger"
)

type MessageUseCase struct {
	chatRepo repository.ChatRepository
	notifier Notifier
}

func NewMessageUseCase(chatRepo repository.ChatRepository, notifier Notifier) *MessageUseCase {
	return &MessageUseCase{
		chatRepo: chatRepo,
		notifier: notifier,
	}
}

type SendMessageInput struct {
	SenderID           string
	SenderName         string
	SenderProfilePic   string
	ReceiverID         string
	ReceiverName       string
	ReceiverProfilePic string
	Body               string
	Timestamp          int64
}

type SendMessageResult struct {
	MessageID string `json:"message_id"`
	ChatID    string `json:"chat_id"`
}

func (input SendMessageInput) validate() error {
	switch {
	case input.SenderID == "":
		return errors.BadRequest("sender_id is required", nil)
	case input.SenderName == "":
		return errors.BadRequest("sender_name is required", nil)
	case input.SenderProfilePic == "":
		return errors.BadRequest("sender_profile_pic is required", nil)
	case input.ReceiverID == "":
		return errors.BadRequest("receiver_id is required", nil)
	case input.ReceiverName == "":
		return errors.BadRequest("receiver_name is required", nil)
	case input.ReceiverProfilePic == "":
		return errors.BadRequest("receiver_profile_pic is required", nil)
	case input.Body == "":
		return errors.BadRequest("body is required", nil)
	case input.Timestamp <= 0:
		return errors.BadRequest("timestamp is required", nil)
	}
	return nil
}

// SendMessage commits the room upsert, the message append and both
// chat-list entries as one atomic unit, then echoes the message to live
// subscribers. The echo is best-effort and never rolls the commit back.
func (uc *MessageUseCase) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	chatID := entity.RoomID(input.SenderID, input.ReceiverID)

	participants := []entity.Participant{
		{ID: input.SenderID, Name: input.SenderName, ProfilePic: input.SenderProfilePic},
		{ID: input.ReceiverID, Name: input.ReceiverName, ProfilePic: input.ReceiverProfilePic},
	}

	message := &entity.Message{
		ID:               uuid.New().String(),
		ChatID:           chatID,
		SenderID:         input.SenderID,
		SenderName:       input.SenderName,
		SenderProfilePic: input.SenderProfilePic,
		Body:             input.Body,
		Timestamp:        input.Timestamp,
		Seen:             false,
	}

	commit := &entity.MessageCommit{
		ChatID: chatID,
		Room: &entity.ChatRoom{
			ID:                   chatID,
			Participants:         participants,
			LastMessage:          input.Body,
			LastMessageTimestamp: input.Timestamp,
		},
		Message: message,
		Entries: []*entity.ChatListEntry{
			chatListEntry(input.SenderID, chatID, participants, input.Body, input.Timestamp),
			chatListEntry(input.ReceiverID, chatID, participants, input.Body, input.Timestamp),
		},
	}

	if err := uc.chatRepo.CommitMessage(ctx, commit); err != nil {
		logger.Error("SendMessage: failed to commit message for chat %s: %v", chatID, err)
		return nil, err
	}

	uc.notifier.Publish(chatID, EventNewMessage, message)

	return &SendMessageResult{
		MessageID: message.ID,
		ChatID:    chatID,
	}, nil
}

// chatListEntry builds the summary row for one owning user. Both
// participants get identical data; only the owner changes.
func chatListEntry(ownerID, chatID string, participants []entity.Participant, lastMessage string, timestamp int64) *entity.ChatListEntry {
	return &entity.ChatListEntry{
		ChatID:               chatID,
		OwnerID:              ownerID,
		Participants:         participants,
		LastMessage:          lastMessage,
		LastMessageTimestamp: timestamp,
	}
}
