package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User: учётная запись вместе с профилем. Профиль создаётся при регистрации
// и меняется только владельцем.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     *string   `json:"full_name,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	Company      *string   `json:"company,omitempty"`
	Position     *string   `json:"position,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	LinkedInURL  *string   `gorm:"column:linkedin_url" json:"linkedin_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName возвращает имя для отображения, с запасным вариантом на email
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return u.Email
}

// ProfilePatch задаёт частичное обновление профиля. nil означает "не менять".
type ProfilePatch struct {
	FullName    *string `json:"full_name"`
	Bio         *string `json:"bio"`
	Company     *string `json:"company"`
	Position    *string `json:"position"`
	AvatarURL   *string `json:"avatar_url"`
	LinkedInURL *string `json:"linkedin_url"`
}

// Columns возвращает только переданные поля в виде карты для gorm Updates
func (p ProfilePatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.FullName != nil {
		cols["full_name"] = *p.FullName
	}
	if p.Bio != nil {
		cols["bio"] = *p.Bio
	}
	if p.Company != nil {
		cols["company"] = *p.Company
	}
	if p.Position != nil {
		cols["position"] = *p.Position
	}
	if p.AvatarURL != nil {
		cols["avatar_url"] = *p.AvatarURL
	}
	if p.LinkedInURL != nil {
		cols["linkedin_url"] = *p.LinkedInURL
	}
	return cols
}
