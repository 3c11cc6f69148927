package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Registration struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	EventID      uuid.UUID          `gorm:"type:uuid;not null;index:idx_registrations_event_user" json:"event_id"`
	UserID       uuid.UUID          `gorm:"type:uuid;not null;index:idx_registrations_event_user" json:"user_id"`
	Status       RegistrationStatus `gorm:"not null;default:'registered'" json:"status"`
	RegisteredAt time.Time          `json:"registered_at"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RegistrationRegistered
	}
	if r.RegisteredAt.IsZero() {
		r.RegisteredAt = time.Now().UTC()
	}
	return r.Validate()
}

func (r *Registration) AfterFind(tx *gorm.DB) error {
	return r.Validate()
}

func (r *Registration) Validate() error {
	_, err := ParseRegistrationStatus(string(r.Status))
	return err
}

// IsActive: активной считается только запись со статусом registered
func (r *Registration) IsActive() bool {
	return r.Status == RegistrationRegistered
}
