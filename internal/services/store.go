package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/eventnet/internal/models"
)

// Ошибки реализаций сравниваются с сентинелами пакета database

type UserStore interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch models.ProfilePatch) (*models.User, error)
	ListProfiles(ctx context.Context, exclude uuid.UUID, search string) ([]models.User, error)
}

type ConnectionStore interface {
	CreateConnection(ctx context.Context, conn *models.Connection) error
	GetConnection(ctx context.Context, id uuid.UUID) (*models.Connection, error)
	FindConnectionBetween(ctx context.Context, a, b uuid.UUID) (*models.Connection, error)
	TransitionConnection(ctx context.Context, id uuid.UUID, from, to models.ConnectionStatus) (*models.Connection, error)
	ListPendingFor(ctx context.Context, receiverID uuid.UUID) ([]models.Connection, error)
	ListConnectionsFor(ctx context.Context, userID uuid.UUID, status models.ConnectionStatus) ([]models.Connection, error)
}

type EventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListEventsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Event, error)
}

type RegistrationStore interface {
	BookRegistration(ctx context.Context, eventID, userID uuid.UUID) (*models.Registration, error)
	CancelRegistration(ctx context.Context, eventID, userID uuid.UUID) (int64, error)
	CountActiveRegistrations(ctx context.Context, eventID uuid.UUID) (int64, error)
	FindActiveRegistration(ctx context.Context, eventID, userID uuid.UUID) (*models.Registration, error)
	ActiveEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	MarkAttended(ctx context.Context, eventID, userID uuid.UUID) error
}

type MessageStore interface {
	AppendMessage(ctx context.Context, message *models.Message) error
	GetEventMessages(ctx context.Context, eventID uuid.UUID) ([]models.Message, error)
	// LatestMessage возвращает database.ErrNotFound для пустого чата
	LatestMessage(ctx context.Context, eventID uuid.UUID) (*models.Message, error)
	CountEventMessages(ctx context.Context, eventID uuid.UUID) (int64, error)
}
