package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"chatline/internal/domain/entity"
	"chatline/internal/domain/repository"
	"chatline/pkg/errors"
)

// memoryChatRepository is a ChatRepository backed by in-process maps. It
// stands in for Firestore in tests and credential-less development runs.
// A single store mutex serializes CommitMessage, which provides the same
// per-room ordering Firestore's optimistic transactions guarantee.
type memoryChatRepository struct {
	mu       sync.RWMutex
	rooms    map[string]*entity.ChatRoom
	messages map[string]map[string]*entity.Message       // chatID -> messageID -> message
	chatList map[string]map[string]*entity.ChatListEntry // userID -> chatID -> entry
}

func NewMemoryChatRepository() repository.ChatRepository {
	return &memoryChatRepository{
		rooms:    make(map[string]*entity.ChatRoom),
		messages: make(map[string]map[string]*entity.Message),
		chatList: make(map[string]map[string]*entity.ChatListEntry),
	}
}

func (r *memoryChatRepository) CommitMessage(ctx context.Context, commit *entity.MessageCommit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	if room, ok := r.rooms[commit.ChatID]; ok {
		room.LastMessage = commit.Room.LastMessage
		room.LastMessageTimestamp = commit.Room.LastMessageTimestamp
		room.UpdatedAt = now
	} else {
		created := commit.Room.Clone()
		created.CreatedAt = now
		created.UpdatedAt = now
		r.rooms[commit.ChatID] = created
	}

	if r.messages[commit.ChatID] == nil {
		r.messages[commit.ChatID] = make(map[string]*entity.Message)
	}
	message := commit.Message.Clone()
	message.CreatedAt = now
	r.messages[commit.ChatID][message.ID] = message

	for _, entry := range commit.Entries {
		if r.chatList[entry.OwnerID] == nil {
			r.chatList[entry.OwnerID] = make(map[string]*entity.ChatListEntry)
		}
		r.chatList[entry.OwnerID][entry.ChatID] = entry.Clone()
	}

	return nil
}

func (r *memoryChatRepository) GetRoom(ctx context.Context, chatID string) (*entity.ChatRoom, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[chatID]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}

	return room.Clone(), nil
}

func (r *memoryChatRepository) GetMessageByID(ctx context.Context, chatID, messageID string) (*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	message, ok := r.messages[chatID][messageID]
	if !ok {
		return nil, errors.NotFound("Message", nil)
	}

	return message.Clone(), nil
}

func (r *memoryChatRepository) ListMessages(ctx context.Context, chatID string, limit int, beforeTimestamp int64) ([]*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Clones keep callers from aliasing store-owned maps and slices.
	var messages []*entity.Message
	for _, message := range r.messages[chatID] {
		if beforeTimestamp > 0 && message.Timestamp >= beforeTimestamp {
			continue
		}
		messages = append(messages, message.Clone())
	}

	sort.Slice(messages, func(i, j int) bool {
		if messages[i].Timestamp != messages[j].Timestamp {
			return messages[i].Timestamp > messages[j].Timestamp
		}
		return messages[i].ID > messages[j].ID
	})

	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}

	return messages, nil
}

func (r *memoryChatRepository) MarkMessagesSeen(ctx context.Context, chatID, userID string, uptoTimestamp int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, message := range r.messages[chatID] {
		if message.Timestamp <= uptoTimestamp && message.SenderID != userID && !message.Seen {
			message.Seen = true
			count++
		}
	}

	return count, nil
}

func (r *memoryChatRepository) MarkMessageDeletedFor(ctx context.Context, chatID, messageID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message, ok := r.messages[chatID][messageID]
	if !ok {
		return errors.NotFound("Message", nil)
	}

	if message.DeletedFor == nil {
		message.DeletedFor = make(map[string]bool)
	}
	message.DeletedFor[userID] = true

	return nil
}

func (r *memoryChatRepository) DeleteMessage(ctx context.Context, chatID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.messages[chatID], messageID)

	return nil
}

func (r *memoryChatRepository) GetChatListEntry(ctx context.Context, userID, chatID string) (*entity.ChatListEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.chatList[userID][chatID]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}

	return entry.Clone(), nil
}

func (r *memoryChatRepository) ListChatsByUser(ctx context.Context, userID string) ([]*entity.ChatListEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*entity.ChatListEntry
	for _, entry := range r.chatList[userID] {
		entries = append(entries, entry.Clone())
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastMessageTimestamp > entries[j].LastMessageTimestamp
	})

	return entries, nil
}

func (r *memoryChatRepository) DeleteChatListEntry(ctx context.Context, userID, chatID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chatList[userID][chatID]; !ok {
		return errors.NotFound("Chat", nil)
	}
	delete(r.chatList[userID], chatID)

	return nil
}
