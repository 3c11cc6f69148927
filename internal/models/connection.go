package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Connection хранит направленный запрос на контакт. Для неупорядоченной пары
// пользователей существует не больше одной записи (уникальный pair_key).
type Connection struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RequesterID uuid.UUID        `gorm:"type:uuid;not null;index" json:"requester_id"`
	ReceiverID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"receiver_id"`
	PairKey     string           `gorm:"not null;uniqueIndex" json:"-"`
	Status      ConnectionStatus `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Связи
	Requester User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Receiver  User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// PairKey строит ключ, одинаковый для (a, b) и (b, a)
func PairKey(a, b uuid.UUID) string {
	as, bs := a.String(), b.String()
	if as > bs {
		as, bs = bs, as
	}
	return as + ":" + bs
}

func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = ConnectionPending
	}
	c.PairKey = PairKey(c.RequesterID, c.ReceiverID)
	return c.Validate()
}

func (c *Connection) AfterFind(tx *gorm.DB) error {
	return c.Validate()
}

func (c *Connection) Validate() error {
	_, err := ParseConnectionStatus(string(c.Status))
	return err
}

// Involves сообщает, участвует ли пользователь в связи
func (c *Connection) Involves(userID uuid.UUID) bool {
	return c.RequesterID == userID || c.ReceiverID == userID
}

// Other возвращает id второй стороны относительно userID
func (c *Connection) Other(userID uuid.UUID) uuid.UUID {
	if c.RequesterID == userID {
		return c.ReceiverID
	}
	return c.RequesterID
}
