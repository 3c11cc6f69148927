package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/eventnet/internal/models"
	"github.com/thereayou/eventnet/internal/services"
)

// MessagePayload структура для входящих сообщений
type MessagePayload struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// MessageResponse структура для исходящих сообщений
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	Seq       int64     `json:"seq"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Sender    UserInfo  `json:"sender"`
}

type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

func NewUserInfo(u *models.User) UserInfo {
	return UserInfo{ID: u.ID, FullName: u.DisplayName(), AvatarURL: u.AvatarURL}
}

func NewMessageResponse(m *models.Message) MessageResponse {
	sender := NewUserInfo(&m.Sender)
	sender.ID = m.SenderID
	return MessageResponse{
		ID:        m.ID,
		EventID:   m.EventID,
		Seq:       m.Seq,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Sender:    sender,
	}
}

func NewTranscript(messages []models.Message) []MessageResponse {
	out := make([]MessageResponse, len(messages))
	for i := range messages {
		out[i] = NewMessageResponse(&messages[i])
	}
	return out
}

type ChatResponse struct {
	Event        models.Event     `json:"event"`
	MessageCount int64            `json:"message_count"`
	LastMessage  *MessageResponse `json:"last_message,omitempty"`
}

func NewChatList(summaries []services.ChatSummary) []ChatResponse {
	out := make([]ChatResponse, len(summaries))
	for i, s := range summaries {
		out[i] = ChatResponse{Event: s.Event, MessageCount: s.MessageCount}
		if s.LastMessage != nil {
			last := NewMessageResponse(s.LastMessage)
			out[i].LastMessage = &last
		}
	}
	return out
}
