package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message хранит сообщение в чате мероприятия. Только добавление.
// Seq растёт монотонно в пределах мероприятия и разрешает совпадения created_at.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_messages_event_seq" json:"event_id"`
	Seq       int64     `gorm:"not null;uniqueIndex:idx_messages_event_seq" json:"seq"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Связи
	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
