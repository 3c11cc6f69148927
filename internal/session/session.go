package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/eventnet/internal/database"
	"github.com/thereayou/eventnet/internal/models"
	"github.com/thereayou/eventnet/pkg/auth"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevoked      = errors.New("token has been revoked")
	ErrUnknownUser  = errors.New("user for token not found")
)

// Session описывает личность текущего запроса. Создаётся Manager.Initialize
// и передаётся обработчикам явно.
type Session struct {
	UserID    uuid.UUID
	Profile   *models.User
	Token     string
	ExpiresAt time.Time
}

// RevocationStore хранит отозванные токены до их истечения
type RevocationStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// ProfileLoader возвращает database.ErrNotFound для неизвестного id
type ProfileLoader interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Manager struct {
	tokens   *auth.JWTManager
	revoked  RevocationStore
	profiles ProfileLoader
}

func NewManager(tokens *auth.JWTManager, revoked RevocationStore, profiles ProfileLoader) *Manager {
	return &Manager{tokens: tokens, revoked: revoked, profiles: profiles}
}

// Initialize проверяет токен, отзыв и загружает профиль
func (m *Manager) Initialize(ctx context.Context, token string) (*Session, error) {
	claims, err := m.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID := claims.UserID

	revoked, err := m.revoked.IsRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}

	profile, err := m.profiles.GetUser(ctx, userID)
	if err != nil {
		// удалённый пользователь со всё ещё валидным токеном
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	return &Session{
		UserID:    userID,
		Profile:   profile,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Teardown отзывает токен сессии до его истечения
func (m *Manager) Teardown(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := m.revoked.Revoke(ctx, s.Token, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
