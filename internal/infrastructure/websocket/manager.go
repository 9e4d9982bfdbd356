package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chatline/pkg/logger"
)

// Client represents one WebSocket connection.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// Event is the wire format for everything pushed to subscribers.
type Event struct {
	Event     string      `json:"event"`
	ChatID    string      `json:"chat_id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Manager owns the connection set and the per-chat topic subscriptions.
// Publishing to a topic with no subscribers is a no-op; there is no replay.
type Manager struct {
	clients    map[*Client]bool
	topics     map[string]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*Client]bool),
		topics:     make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's registration loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client] = true
				m.mutex.Unlock()
				logger.Info("Client registered: %s", client.ID)

			case client := <-m.Unregister:
				m.removeClient(client)
				logger.Info("Client unregistered: %s", client.ID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// removeClient drops every subscription and, for registered clients,
// closes the send channel. The close happens under the write lock while
// all sends hold the read lock, so a drop cannot race an in-flight send.
func (m *Manager) removeClient(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for chatID, subscribers := range m.topics {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(m.topics, chatID)
		}
	}

	if _, ok := m.clients[client]; ok {
		delete(m.clients, client)
		close(client.Send)
	}
}

// Subscribe adds the client to the topic for chatID. Events published
// before the subscription are never delivered.
func (m *Manager) Subscribe(client *Client, chatID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.topics[chatID] == nil {
		m.topics[chatID] = make(map[*Client]bool)
	}
	m.topics[chatID][client] = true
}

func (m *Manager) Unsubscribe(client *Client, chatID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	subscribers, ok := m.topics[chatID]
	if !ok {
		return
	}
	delete(subscribers, client)
	if len(subscribers) == 0 {
		delete(m.topics, chatID)
	}
}

// Publish delivers an event to every current subscriber of chatID. Each
// client's buffered send channel preserves per-topic publish order; a
// client whose buffer is full is dropped.
func (m *Manager) Publish(chatID string, event string, payload interface{}) {
	message := Event{
		Event:     event,
		ChatID:    chatID,
		Data:      payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal %s event for chat %s: %v", event, chatID, err)
		return
	}

	m.mutex.RLock()
	var dropped []*Client
	for client := range m.topics[chatID] {
		select {
		case client.Send <- data:
		default:
			dropped = append(dropped, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range dropped {
		logger.Warn("Client %s send buffer full, dropping connection", client.ID)
		m.removeClient(client)
	}
}

// ReadPump reads commands from the connection until it closes.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("Read error for client %s: %v", c.ID, err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump sends queued events to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Error("Write error for client %s: %v", c.ID, err)
			return
		}
	}
}
