package usecase

// Event names published on the chat topic after successful mutations.
const (
	EventNewMessage     = "new-message"
	EventMessagesSeen   = "messages-seen"
	EventMessageDeleted = "message-deleted"
	EventChatDeleted    = "chat-deleted"
)

// Notifier is the realtime fan-out surface the use cases publish through.
// Delivery is best-effort and never affects the triggering operation; any
// in-process hub or external broker can satisfy it.
type Notifier interface {
	Publish(chatID string, event string, payload interface{})
}
