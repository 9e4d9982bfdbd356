package entity

import (
	"sort"
	"strings"
	"time"
)

// Participant is the denormalized identity snapshot embedded in rooms and
// chat-list entries. It is never stored on its own.
type Participant struct {
	ID         string `json:"id" firestore:"id"`
	Name       string `json:"name" firestore:"name"`
	ProfilePic string `json:"profile_pic" firestore:"profilePic"`
}

// ChatRoom is the shared conversation between exactly two participants.
// At most one room exists per unordered participant pair; the participant
// snapshot is written once at creation and never rewritten.
type ChatRoom struct {
	ID                   string        `json:"id" firestore:"id"`
	Participants         []Participant `json:"participants" firestore:"participants"`
	LastMessage          string        `json:"last_message" firestore:"lastMessage"`
	LastMessageTimestamp int64         `json:"last_message_timestamp" firestore:"lastMessageTimestamp"`
	CreatedAt            time.Time     `json:"created_at" firestore:"createdAt"`
	UpdatedAt            time.Time     `json:"updated_at" firestore:"updatedAt"`
}

// Clone returns a copy sharing no mutable state with the receiver.
func (r *ChatRoom) Clone() *ChatRoom {
	copied := *r
	copied.Participants = append([]Participant(nil), r.Participants...)
	return &copied
}

// RoomID derives the room identifier for a participant pair. The pair is
// sorted first, so RoomID(a, b) == RoomID(b, a) and independent senders
// converge on the same room without coordination.
func RoomID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "-")
}
