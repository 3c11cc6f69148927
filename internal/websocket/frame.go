package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageType задаёт тип фрейма протокола чатов
type MessageType string

const (
	TypePing  MessageType = "ping"
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"

	// От клиента
	TypeChatSelect MessageType = "chat_select"
	TypeChatLeave  MessageType = "chat_leave"
	TypeChatSend   MessageType = "chat_send"

	// От сервера
	TypeTranscript  MessageType = "transcript"
	TypeMessageSent MessageType = "message_sent"
)

// Message: фрейм в обе стороны. UserID всегда проставляет сервер.
type Message struct {
	Type      MessageType     `json:"type"`
	EventID   *uuid.UUID      `json:"event_id,omitempty"`
	UserID    uuid.UUID       `json:"user_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type errorPayload struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func encodeFrame(msgType MessageType, eventID *uuid.UUID, userID uuid.UUID, data any) ([]byte, error) {
	msg := Message{
		Type:      msgType,
		EventID:   eventID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	return json.Marshal(msg)
}
