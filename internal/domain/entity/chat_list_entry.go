package entity

// ChatListEntry is the per-user inbox summary row for one chat. Two entries
// exist per room, one under each participant, and are independently
// deletable; both mirror the room's last-message fields after every send.
type ChatListEntry struct {
	ChatID               string        `json:"chat_id" firestore:"chatId"`
	OwnerID              string        `json:"-" firestore:"-"`
	Participants         []Participant `json:"participants" firestore:"participants"`
	LastMessage          string        `json:"last_message" firestore:"lastMessage"`
	LastMessageTimestamp int64         `json:"last_message_timestamp" firestore:"lastMessageTimestamp"`
}

// Clone returns a copy sharing no mutable state with the receiver.
func (e *ChatListEntry) Clone() *ChatListEntry {
	copied := *e
	copied.Participants = append([]Participant(nil), e.Participants...)
	return &copied
}

// MessageCommit is the atomic commit unit for one inbound message: the room
// upsert, the appended message and the chat-list upsert for both
// participants. All writes land in one store transaction or none do.
type MessageCommit struct {
	ChatID  string
	Room    *ChatRoom
	Message *Message
	Entries []*ChatListEntry
}
