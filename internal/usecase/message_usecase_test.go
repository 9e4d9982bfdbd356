package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatline/internal/adapter/repository"
	"chatline/internal/domain/entity"
	"chatline/pkg/errors"
)

func validSendInput() SendMessageInput {
	return SendMessageInput{
		SenderID:           "alice",
		SenderName:         "Alice",
		SenderProfilePic:   "pics/alice.png",
		ReceiverID:         "bob",
		ReceiverName:       "Bob",
		ReceiverProfilePic: "pics/bob.png",
		Body:               "hi",
		Timestamp:          100,
	}
}

func TestSendMessage_Validation(t *testing.T) {
	uc := NewMessageUseCase(repository.NewMemoryChatRepository(), newRecordingNotifier())

	mutations := map[string]func(*SendMessageInput){
		"missing sender id":            func(in *SendMessageInput) { in.SenderID = "" },
		"missing sender name":          func(in *SendMessageInput) { in.SenderName = "" },
		"missing sender profile pic":   func(in *SendMessageInput) { in.SenderProfilePic = "" },
		"missing receiver id":          func(in *SendMessageInput) { in.ReceiverID = "" },
		"missing receiver name":        func(in *SendMessageInput) { in.ReceiverName = "" },
		"missing receiver profile pic": func(in *SendMessageInput) { in.ReceiverProfilePic = "" },
		"missing body":                 func(in *SendMessageInput) { in.Body = "" },
		"missing timestamp":            func(in *SendMessageInput) { in.Timestamp = 0 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			input := validSendInput()
			mutate(&input)

			_, err := uc.SendMessage(context.Background(), input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
		})
	}
}

func TestSendMessage_FirstMessageCreatesRoomAndEntries(t *testing.T) {
	repo := repository.NewMemoryChatRepository()
	notifier := newRecordingNotifier()
	uc := NewMessageUseCase(repo, notifier)

	result, err := uc.SendMessage(context.Background(), validSendInput())
	require.NoError(t, err)
	assert.Equal(t, "alice-bob", result.ChatID)
	assert.NotEmpty(t, result.MessageID)

	room, err := repo.GetRoom(context.Background(), result.ChatID)
	require.NoError(t, err)
	assert.Equal(t, "hi", room.LastMessage)
	assert.Equal(t, int64(100), room.LastMessageTimestamp)
	assert.Len(t, room.Participants, 2)

	for _, userID := range []string{"alice", "bob"} {
		entries, err := repo.ListChatsByUser(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, result.ChatID, entries[0].ChatID)
		assert.Equal(t, "hi", entries[0].LastMessage)
	}

	message, err := repo.GetMessageByID(context.Background(), result.ChatID, result.MessageID)
	require.NoError(t, err)
	assert.False(t, message.Seen)
	assert.Equal(t, "alice", message.SenderID)

	events := notifier.published()
	require.Len(t, events, 1)
	assert.Equal(t, EventNewMessage, events[0].Event)
	assert.Equal(t, result.ChatID, events[0].ChatID)
}

func TestSendMessage_SecondMessageUpdatesWithoutDuplication(t *testing.T) {
	repo := repository.NewMemoryChatRepository()
	uc := NewMessageUseCase(repo, newRecordingNotifier())

	first, err := uc.SendMessage(context.Background(), validSendInput())
	require.NoError(t, err)

	// Reply from the other direction resolves to the same room.
	reply := SendMessageInput{
		SenderID:           "bob",
		SenderName:         "Bob",
		SenderProfilePic:   "pics/bob.png",
		ReceiverID:         "alice",
		ReceiverName:       "Alice",
		ReceiverProfilePic: "pics/alice.png",
		Body:               "hello back",
		Timestamp:          200,
	}
	second, err := uc.SendMessage(context.Background(), reply)
	require.NoError(t, err)
	assert.Equal(t, first.ChatID, second.ChatID)

	room, err := repo.GetRoom(context.Background(), first.ChatID)
	require.NoError(t, err)
	assert.Equal(t, "hello back", room.LastMessage)
	assert.Equal(t, int64(200), room.LastMessageTimestamp)

	for _, userID := range []string{"alice", "bob"} {
		entries, err := repo.ListChatsByUser(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "hello back", entries[0].LastMessage)
	}

	messages, err := repo.ListMessages(context.Background(), first.ChatID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestSendMessage_ConcurrentSendersSingleRoom(t *testing.T) {
	repo := repository.NewMemoryChatRepository()
	uc := NewMessageUseCase(repo, newRecordingNotifier())

	const senders = 20
	var wg sync.WaitGroup
	wg.Add(senders)

	for i := 0; i < senders; i++ {
		go func(n int) {
			defer wg.Done()

			input := validSendInput()
			if n%2 == 1 {
				input.SenderID, input.ReceiverID = input.ReceiverID, input.SenderID
				input.SenderName, input.ReceiverName = input.ReceiverName, input.SenderName
				input.SenderProfilePic, input.ReceiverProfilePic = input.ReceiverProfilePic, input.SenderProfilePic
			}
			input.Timestamp = int64(100 + n)

			_, err := uc.SendMessage(context.Background(), input)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	room, err := repo.GetRoom(context.Background(), entity.RoomID("alice", "bob"))
	require.NoError(t, err)
	assert.Len(t, room.Participants, 2)

	messages, err := repo.ListMessages(context.Background(), room.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, messages, senders)
}
