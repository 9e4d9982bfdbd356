package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chatline/internal/domain/entity"
	"chatline/internal/domain/repository"
	"chatline/pkg/errors"
	"chatline/pkg/logger"
)

const (
	chatRoomsCollection = "chatRooms"
	messagesCollection  = "messages"
	usersCollection     = "users"
	chatListCollection  = "chatList"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) roomRef(chatID string) *firestore.DocumentRef {
	return r.client.Collection(chatRoomsCollection).Doc(chatID)
}

func (r *firestoreChatRepository) messageRef(chatID, messageID string) *firestore.DocumentRef {
	return r.roomRef(chatID).Collection(messagesCollection).Doc(messageID)
}

func (r *firestoreChatRepository) chatListRef(userID, chatID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(chatListCollection).Doc(chatID)
}

// CommitMessage runs the whole send as one Firestore transaction: room
// upsert, message create and both chat-list merges. Firestore retries the
// function on contention, so concurrent sends for the same room serialize.
func (r *firestoreChatRepository) CommitMessage(ctx context.Context, commit *entity.MessageCommit) error {
	roomRef := r.roomRef(commit.ChatID)
	msgRef := r.messageRef(commit.ChatID, commit.Message.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(roomRef)
		now := time.Now()

		switch {
		case err == nil:
			// Participant snapshot is never rewritten after creation.
			if err := tx.Update(roomRef, []firestore.Update{
				{Path: "lastMessage", Value: commit.Room.LastMessage},
				{Path: "lastMessageTimestamp", Value: commit.Room.LastMessageTimestamp},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
		case status.Code(err) == codes.NotFound:
			commit.Room.CreatedAt = now
			commit.Room.UpdatedAt = now
			if err := tx.Set(roomRef, commit.Room); err != nil {
				return err
			}
		default:
			return err
		}

		commit.Message.CreatedAt = now
		if err := tx.Create(msgRef, commit.Message); err != nil {
			return err
		}

		for _, entry := range commit.Entries {
			entryRef := r.chatListRef(entry.OwnerID, entry.ChatID)
			if err := tx.Set(entryRef, map[string]interface{}{
				"chatId":               entry.ChatID,
				"participants":         entry.Participants,
				"lastMessage":          entry.LastMessage,
				"lastMessageTimestamp": entry.LastMessageTimestamp,
			}, firestore.MergeAll); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return errors.Internal("Failed to commit message", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetRoom(ctx context.Context, chatID string) (*entity.ChatRoom, error) {
	doc, err := r.roomRef(chatID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat room", err)
	}

	var room entity.ChatRoom
	if err := doc.DataTo(&room); err != nil {
		return nil, errors.Internal("Failed to parse chat room data", err)
	}
	room.ID = doc.Ref.ID

	return &room, nil
}

func (r *firestoreChatRepository) GetMessageByID(ctx context.Context, chatID, messageID string) (*entity.Message, error) {
	doc, err := r.messageRef(chatID, messageID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	message.ID = doc.Ref.ID

	return &message, nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, chatID string, limit int, beforeTimestamp int64) ([]*entity.Message, error) {
	query := r.roomRef(chatID).Collection(messagesCollection).
		OrderBy("timestamp", firestore.Desc)

	if beforeTimestamp > 0 {
		query = query.Where("timestamp", "<", beforeTimestamp)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating messages for chat %s: %v", chatID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Error("Error parsing message data for chat %s: %v", chatID, err)
			return nil, errors.Internal("Failed to parse message data", err)
		}
		message.ID = doc.Ref.ID

		messages = append(messages, &message)
	}

	return messages, nil
}

// MarkMessagesSeen flips the unseen messages in one all-or-nothing batch,
// matching the idempotent filter: already-seen messages and the reader's
// own messages are never selected.
func (r *firestoreChatRepository) MarkMessagesSeen(ctx context.Context, chatID, userID string, uptoTimestamp int64) (int, error) {
	query := r.roomRef(chatID).Collection(messagesCollection).
		Where("timestamp", "<=", uptoTimestamp).
		Where("senderId", "!=", userID).
		Where("seen", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while selecting unseen messages for chat %s: %v", chatID, err)
		return 0, errors.Internal("Failed to query unseen messages", err)
	}

	if len(docs) == 0 {
		return 0, nil
	}

	batch := r.client.Batch()
	for _, doc := range docs {
		batch.Update(doc.Ref, []firestore.Update{
			{Path: "seen", Value: true},
		})
	}

	if _, err := batch.Commit(ctx); err != nil {
		return 0, errors.Internal("Failed to mark messages as seen", err)
	}

	return len(docs), nil
}

func (r *firestoreChatRepository) MarkMessageDeletedFor(ctx context.Context, chatID, messageID, userID string) error {
	_, err := r.messageRef(chatID, messageID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"deletedFor", userID}, Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Message", err)
		}
		return errors.Internal("Failed to mark message as deleted", err)
	}

	return nil
}

func (r *firestoreChatRepository) DeleteMessage(ctx context.Context, chatID, messageID string) error {
	_, err := r.messageRef(chatID, messageID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete message", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetChatListEntry(ctx context.Context, userID, chatID string) (*entity.ChatListEntry, error) {
	doc, err := r.chatListRef(userID, chatID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat list entry", err)
	}

	var entry entity.ChatListEntry
	if err := doc.DataTo(&entry); err != nil {
		return nil, errors.Internal("Failed to parse chat list entry data", err)
	}
	entry.OwnerID = userID

	return &entry, nil
}

func (r *firestoreChatRepository) ListChatsByUser(ctx context.Context, userID string) ([]*entity.ChatListEntry, error) {
	query := r.client.Collection(usersCollection).Doc(userID).Collection(chatListCollection).
		OrderBy("lastMessageTimestamp", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var entries []*entity.ChatListEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while fetching chat list for user %s: %v", userID, err)
			return nil, errors.Internal("Failed to fetch chat list", err)
		}

		var entry entity.ChatListEntry
		if err := doc.DataTo(&entry); err != nil {
			logger.Error("Error parsing chat list entry for user %s: %v", userID, err)
			continue
		}
		entry.OwnerID = userID

		entries = append(entries, &entry)
	}

	return entries, nil
}

func (r *firestoreChatRepository) DeleteChatListEntry(ctx context.Context, userID, chatID string) error {
	_, err := r.chatListRef(userID, chatID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete chat list entry", err)
	}

	return nil
}
