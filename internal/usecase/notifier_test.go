package usecase

import "sync"

// recordingNotifier captures published events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	ChatID  string
	Event   string
	Payload interface{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{}
}

func (n *recordingNotifier) Publish(chatID string, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{ChatID: chatID, Event: event, Payload: payload})
}

func (n *recordingNotifier) published() []publishedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]publishedEvent, len(n.events))
	copy(out, n.events)
	return out
}
