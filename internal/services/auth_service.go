package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thereayou/eventnet/internal/database"
	"github.com/thereayou/eventnet/internal/models"
	"github.com/thereayou/eventnet/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"token_expires_at"`
}

// AuthService управляет учётными записями и профилями
type AuthService struct {
	users  UserStore
	tokens *auth.JWTManager
	log    *zerolog.Logger
}

func NewAuthService(users UserStore, tokens *auth.JWTManager, log *zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// SignUp создаёт пользователя вместе с профилем и сразу выдаёт токен
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
	}
	if name := strings.TrimSpace(in.FullName); name != "" {
		user.FullName = &name
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			return nil, ErrAlreadyExists
		}
		return nil, collaborator("save user", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user signed up")
	return s.issue(user)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, collaborator("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expires, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expires}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, collaborator("get user", err)
	}
	return user, nil
}

// UpdateProfile меняет профиль владельца сессии
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.User, error) {
	user, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, collaborator("update profile", err)
	}
	return user, nil
}
