package notifications

import (
	"encoding/json"
	"fmt"
)

const (
	EventMessageReceived = "message_received"
	EventTyping          = "typing"
	EventMessagesDropped = "messages_dropped"
	EventPong            = "pong"
)

// Event is the envelope written to sockets: {"type": ..., "payload": ...}.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// TypingPayload tells the receiver that SenderID started or stopped typing.
type TypingPayload struct {
	SenderID uint `json:"senderId"`
	IsTyping bool `json:"isTyping"`
}

// incoming is a client-to-server frame.
type incoming struct {
	Type       string `json:"type"`
	ReceiverID uint   `json:"receiverId"`
	IsTyping   bool   `json:"isTyping"`
}

func (e Event) encode() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	return string(b), nil
}
