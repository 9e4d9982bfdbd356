package repository

import (
	"context"

	"chatline/internal/domain/entity"
)

// ChatRepository abstracts the transactional document store backing rooms,
// messages and per-user chat lists.
//
// CommitMessage must be atomic with per-room serialization: two concurrent
// commits for the same room must not both observe room-absence and both
// create it. The Firestore implementation relies on optimistic transaction
// retries; the in-memory implementation serializes behind a store mutex.
type ChatRepository interface {
	CommitMessage(ctx context.Context, commit *entity.MessageCommit) error

	GetRoom(ctx context.Context, chatID string) (*entity.ChatRoom, error)
	GetMessageByID(ctx context.Context, chatID, messageID string) (*entity.Message, error)

	// ListMessages returns up to limit messages ordered by timestamp
	// descending. A beforeTimestamp > 0 restricts results to strictly
	// earlier messages.
	ListMessages(ctx context.Context, chatID string, limit int, beforeTimestamp int64) ([]*entity.Message, error)

	// MarkMessagesSeen flips seen=true on every unseen message in the chat
	// with timestamp <= uptoTimestamp that was not sent by userID, in one
	// batched write. Returns the number of messages updated.
	MarkMessagesSeen(ctx context.Context, chatID, userID string, uptoTimestamp int64) (int, error)

	MarkMessageDeletedFor(ctx context.Context, chatID, messageID, userID string) error
	DeleteMessage(ctx context.Context, chatID, messageID string) error

	GetChatListEntry(ctx context.Context, userID, chatID string) (*entity.ChatListEntry, error)
	ListChatsByUser(ctx context.Context, userID string) ([]*entity.ChatListEntry, error)
	DeleteChatListEntry(ctx context.Context, userID, chatID string) error
}
