package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatline/internal/adapter/repository"
	"chatline/pkg/errors"
)

func TestListMessages_RequiresRequestingUser(t *testing.T) {
	uc := NewQueryUseCase(repository.NewMemoryChatRepository())

	_, err := uc.ListMessages(context.Background(), "alice-bob", "", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestListMessages_EmptyChatIsSuccess(t *testing.T) {
	uc := NewQueryUseCase(repository.NewMemoryChatRepository())

	messages, err := uc.ListMessages(context.Background(), "alice-bob", "alice", 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.NotNil(t, messages)
}

func TestListMessages_OrderLimitAndCursor(t *testing.T) {
	repo := repository.NewMemoryChatRepository()
	sender := NewMessageUseCase(repo, newRecordingNotifier())
	uc := NewQueryUseCase(repo)

	var chatID string
	for i := 1; i <= 60; i++ {
		input := validSendInput()
		input.Body = fmt.Sprintf("message %d", i)
		input.Timestamp = int64(i)
		result, err := sender.SendMessage(context.Background(), input)
		require.NoError(t, err)
		chatID = result.ChatID
	}

	messages, err := uc.ListMessages(context.Background(), chatID, "bob", 0)
	require.NoError(t, err)
	require.Len(t, messages, 50)
	assert.Equal(t, int64(60), messages[0].Timestamp)
	for i := 1; i < len(messages); i++ {
		assert.GreaterOrEqual(t, messages[i-1].Timestamp, messages[i].Timestamp)
	}

	// Cursor restricts to strictly earlier timestamps.
	older, err := uc.ListMessages(context.Background(), chatID, "bob", 11)
	require.NoError(t, err)
	require.Len(t, older, 10)
	assert.Equal(t, int64(10), older[0].Timestamp)
}

func TestListMessages_FiltersMessagesDeletedForRequester(t *testing.T) {
	repo := repository.NewMemoryChatRepository()
	sender := NewMessageUseCase(repo, newRecordingNotifier())
	uc := NewQueryUseCase(repo)

	result, err := sender.SendMessage(context.Background(), validSendInput())
	require.NoError(t, err)

	require.NoError(t, repo.MarkMessageDeletedFor(context.Background(), result.ChatID, result.MessageID, "alice"))

	forAlice, err := uc.ListMessages(context.Background(), result.ChatID, "alice", 0)
	require.NoError(t, err)
	assert.Empty(t, forAlice)

	// The other participant still sees it, with no trace of the deletion
	// flag mattering for them.
	forBob, err := uc.ListMessages(context.Background(), result.ChatID, "bob", 0)
	require.NoError(t, err)
	require.Len(t, forBob, 1)
	assert.Equal(t, result.MessageID, forBob[0].ID)
}

func TestListChats_OrderedByRecency(t *testing.T) {
	repo := repository.NewMemoryChatRepository()
	sender := NewMessageUseCase(repo, newRecordingNotifier())
	uc := NewQueryUseCase(repo)

	input := validSendInput()
	input.ReceiverID = "bob"
	input.Timestamp = 100
	_, err := sender.SendMessage(context.Background(), input)
	require.NoError(t, err)

	input = validSendInput()
	input.ReceiverID = "carol"
	input.ReceiverName = "Carol"
	input.ReceiverProfilePic = "pics/carol.png"
	input.Timestamp = 300
	_, err = sender.SendMessage(context.Background(), input)
	require.NoError(t, err)

	chats, err := uc.ListChats(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "alice-carol", chats[0].ChatID)
	assert.Equal(t, "alice-bob", chats[1].ChatID)
}

func TestListChats_RequiresUser(t *testing.T) {
	uc := NewQueryUseCase(repository.NewMemoryChatRepository())

	_, err := uc.ListChats(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestListChats_EmptyIsSuccess(t *testing.T) {
	uc := NewQueryUseCase(repository.NewMemoryChatRepository())

	chats, err := uc.ListChats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, chats)
	assert.Empty(t, chats)
}
