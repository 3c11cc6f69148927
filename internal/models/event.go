package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Event struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string      `gorm:"not null" json:"title"`
	Slug            string      `gorm:"index" json:"slug"`
	Description     *string     `json:"description,omitempty"`
	EventType       EventType   `gorm:"not null" json:"event_type"`
	Format          EventFormat `gorm:"not null" json:"format"`
	Date            time.Time   `gorm:"not null;index" json:"date"`
	EndDate         *time.Time  `json:"end_date,omitempty"`
	Location        *string     `json:"location,omitempty"`
	MaxParticipants *int        `json:"max_participants,omitempty"`
	ImageURL        *string     `json:"image_url,omitempty"`
	CreatedBy       uuid.UUID   `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Slug == "" {
		e.Slug = slug.Make(e.Title) + "-" + e.ID.String()[:8]
	}
	return e.Validate()
}

func (e *Event) AfterFind(tx *gorm.DB) error {
	return e.Validate()
}

// Validate проверяет поля-перечисления
func (e *Event) Validate() error {
	if _, err := ParseEventType(string(e.EventType)); err != nil {
		return err
	}
	if _, err := ParseEventFormat(string(e.Format)); err != nil {
		return err
	}
	return nil
}

// HasCapacityLimit сообщает, ограничено ли число участников
func (e *Event) HasCapacityLimit() bool {
	return e.MaxParticipants != nil
}
