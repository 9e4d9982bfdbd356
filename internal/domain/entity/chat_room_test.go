package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomID(t *testing.T) {
	t.Run("symmetric for any pair", func(t *testing.T) {
		pairs := [][2]string{
			{"alice", "bob"},
			{"bob", "alice"},
			{"user-42", "user-7"},
			{"a", "a"},
		}
		for _, pair := range pairs {
			assert.Equal(t, RoomID(pair[0], pair[1]), RoomID(pair[1], pair[0]))
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, "alice-bob", RoomID("bob", "alice"))
		assert.Equal(t, "alice-bob", RoomID("alice", "bob"))
	})

	t.Run("sorts lexicographically", func(t *testing.T) {
		assert.Equal(t, "user-10-user-9", RoomID("user-9", "user-10"))
	})
}
