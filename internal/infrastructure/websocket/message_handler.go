package websocket

import (
	"encoding/json"
	"time"

	"chatline/pkg/logger"
)

const (
	CommandPing       = "ping"
	CommandPong       = "pong"
	CommandJoinTopic  = "join_topic"
	CommandLeaveTopic = "leave_topic"
)

// Command is the inbound client message format.
type Command struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id,omitempty"`
}

// HandleClientMessage processes one inbound client command.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var command Command
	if err := json.Unmarshal(messageBytes, &command); err != nil {
		logger.Warn("Failed to unmarshal command from client %s: %v", client.ID, err)
		m.sendErrorToClient(client, "Invalid message format")
		return
	}

	switch command.Type {
	case CommandPing:
		m.sendToClient(client, Event{
			Event:     CommandPong,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})

	case CommandJoinTopic:
		if command.ChatID == "" {
			m.sendErrorToClient(client, "Missing chat_id")
			return
		}
		m.Subscribe(client, command.ChatID)
		logger.Info("Client %s joined topic %s", client.ID, command.ChatID)

	case CommandLeaveTopic:
		if command.ChatID == "" {
			m.sendErrorToClient(client, "Missing chat_id")
			return
		}
		m.Unsubscribe(client, command.ChatID)
		logger.Info("Client %s left topic %s", client.ID, command.ChatID)

	default:
		logger.Warn("Unknown command type '%s' from client %s", command.Type, client.ID)
		m.sendErrorToClient(client, "Unknown message type")
	}
}

func (m *Manager) sendToClient(client *Client, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event for client %s: %v", client.ID, err)
		return
	}

	m.mutex.RLock()
	dropped := false
	select {
	case client.Send <- data:
	default:
		dropped = true
	}
	m.mutex.RUnlock()

	if dropped {
		logger.Warn("Client %s send buffer full, dropping connection", client.ID)
		m.removeClient(client)
	}
}

func (m *Manager) sendErrorToClient(client *Client, errorMsg string) {
	m.sendToClient(client, Event{
		Event:     "error",
		Data:      map[string]string{"error": errorMsg},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
