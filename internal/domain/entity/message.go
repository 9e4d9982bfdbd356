package entity

import "time"

// Message is immutable once written except for the Seen flag and the
// per-user DeletedFor map. Timestamp is caller-supplied, not server time.
type Message struct {
	ID               string          `json:"id" firestore:"id"`
	ChatID           string          `json:"chat_id" firestore:"chatId"`
	SenderID         string          `json:"sender_id" firestore:"senderId"`
	SenderName       string          `json:"sender_name" firestore:"senderName"`
	SenderProfilePic string          `json:"sender_profile_pic" firestore:"senderProfilePic"`
	Body             string          `json:"body" firestore:"body"`
	Timestamp        int64           `json:"timestamp" firestore:"timestamp"`
	Seen             bool            `json:"seen" firestore:"seen"`
	DeletedFor       map[string]bool `json:"deleted_for,omitempty" firestore:"deletedFor,omitempty"`
	CreatedAt        time.Time       `json:"created_at" firestore:"createdAt"`
}

// DeletedForUser reports whether the message has been hidden for userID.
func (m *Message) DeletedForUser(userID string) bool {
	return m.DeletedFor[userID]
}

// Clone returns a copy sharing no mutable state with the receiver.
func (m *Message) Clone() *Message {
	copied := *m
	if m.DeletedFor != nil {
		copied.DeletedFor = make(map[string]bool, len(m.DeletedFor))
		for userID, deleted := range m.DeletedFor {
			copied.DeletedFor[userID] = deleted
		}
	}
	return &copied
}
