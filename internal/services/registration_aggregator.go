package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thereayou/eventnet/internal/database"
	"github.com/thereayou/eventnet/internal/models"
	"golang.org/x/sync/errgroup"
)

// параллельных запросов на подсчёт при построении списка
const viewFanout = 8

// EventInput содержит поля нового мероприятия до проверки
type EventInput struct {
	Title           string
	Description     *string
	EventType       string
	Format          string
	Date            time.Time
	EndDate         *time.Time
	Location        *string
	MaxParticipants *int
	ImageURL        *string
}

// EventView дополняет мероприятие производными значениями для зрителя
type EventView struct {
	models.Event
	RegistrationsCount int64  `json:"registrations_count"`
	IsRegistered       bool   `json:"is_registered"`
	SeatsLeft          *int64 `json:"seats_left,omitempty"`
	IsFull             bool   `json:"is_full"`
}

type RegistrationAggregator struct {
	events EventStore
	regs   RegistrationStore
	log    *zerolog.Logger
}

func NewRegistrationAggregator(events EventStore, regs RegistrationStore, log *zerolog.Logger) *RegistrationAggregator {
	return &RegistrationAggregator{events: events, regs: regs, log: log}
}

// RegistrationCountFor считает активные регистрации. Без кеша.
func (a *RegistrationAggregator) RegistrationCountFor(ctx context.Context, eventID uuid.UUID) (int64, error) {
	count, err := a.regs.CountActiveRegistrations(ctx, eventID)
	if err != nil {
		return 0, collaborator("count registrations", err)
	}
	return count, nil
}

func (a *RegistrationAggregator) IsRegistered(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	_, err := a.regs.FindActiveRegistration(ctx, eventID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return false, collaborator("find registration", err)
}

// Register записывает пользователя на мероприятие.
// Проверки и вставка выполняются хранилищем одной транзакцией.
func (a *RegistrationAggregator) Register(ctx context.Context, eventID, userID uuid.UUID) (*models.Registration, error) {
	reg, err := a.regs.BookRegistration(ctx, eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, database.ErrAlreadyRegistered):
			return nil, ErrAlreadyRegistered
		case errors.Is(err, database.ErrEventFull):
			return nil, ErrEventFull
		}
		return nil, collaborator("book registration", err)
	}

	a.log.Info().
		Str("event_id", eventID.String()).
		Str("user_id", userID.String()).
		Msg("registered for event")
	return reg, nil
}

// Unregister снимает активную регистрацию. Отсутствие регистрации не ошибка.
func (a *RegistrationAggregator) Unregister(ctx context.Context, eventID, userID uuid.UUID) error {
	n, err := a.regs.CancelRegistration(ctx, eventID, userID)
	if err != nil {
		return collaborator("cancel registration", err)
	}
	if n > 0 {
		a.log.Info().
			Str("event_id", eventID.String()).
			Str("user_id", userID.String()).
			Msg("registration cancelled")
	}
	return nil
}

// MarkAttended отмечает посещение. Доступно только создателю мероприятия.
func (a *RegistrationAggregator) MarkAttended(ctx context.Context, callerID, eventID, userID uuid.UUID) error {
	event, err := a.events.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		}
		return collaborator("get event", err)
	}
	if event.CreatedBy != callerID {
		return ErrNotAuthorized
	}

	if err := a.regs.MarkAttended(ctx, eventID, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		}
		return collaborator("mark attended", err)
	}

	a.log.Info().
		Str("event_id", eventID.String()).
		Str("user_id", userID.String()).
		Msg("attendance marked")
	return nil
}

func (in EventInput) validate() (models.EventType, models.EventFormat, error) {
	if strings.TrimSpace(in.Title) == "" {
		return "", "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	eventType, err := models.ParseEventType(in.EventType)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	format, err := models.ParseEventFormat(in.Format)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.Date.IsZero() {
		return "", "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if in.EndDate != nil && in.EndDate.Before(in.Date) {
		return "", "", fmt.Errorf("%w: end_date is before date", ErrInvalidInput)
	}
	if in.MaxParticipants != nil && *in.MaxParticipants <= 0 {
		return "", "", fmt.Errorf("%w: max_participants must be positive", ErrInvalidInput)
	}
	return eventType, format, nil
}

func (a *RegistrationAggregator) CreateEvent(ctx context.Context, creatorID uuid.UUID, in EventInput) (*models.Event, error) {
	eventType, format, err := in.validate()
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		EventType:       eventType,
		Format:          format,
		Date:            in.Date.UTC(),
		Location:        in.Location,
		MaxParticipants: in.MaxParticipants,
		ImageURL:        in.ImageURL,
		CreatedBy:       creatorID,
	}
	if in.EndDate != nil {
		end := in.EndDate.UTC()
		event.EndDate = &end
	}

	if err := a.events.CreateEvent(ctx, event); err != nil {
		return nil, collaborator("create event", err)
	}

	a.log.Info().
		Str("event_id", event.ID.String()).
		Str("user_id", creatorID.String()).
		Msg("event created")
	return event, nil
}

// ListEvents возвращает мероприятия по дате с подсчётами для viewer
func (a *RegistrationAggregator) ListEvents(ctx context.Context, viewerID uuid.UUID) ([]EventView, error) {
	events, err := a.events.ListEvents(ctx)
	if err != nil {
		return nil, collaborator("list events", err)
	}
	return a.views(ctx, viewerID, events)
}

func (a *RegistrationAggregator) ViewEvent(ctx context.Context, viewerID, eventID uuid.UUID) (*EventView, error) {
	event, err := a.events.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, collaborator("get event", err)
	}

	views, err := a.views(ctx, viewerID, []models.Event{*event})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views считает производные значения параллельно, по запросу на мероприятие
func (a *RegistrationAggregator) views(ctx context.Context, viewerID uuid.UUID, events []models.Event) ([]EventView, error) {
	views := make([]EventView, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(viewFanout)

	for i := range events {
		g.Go(func() error {
			count, err := a.RegistrationCountFor(gctx, events[i].ID)
			if err != nil {
				return err
			}
			registered, err := a.IsRegistered(gctx, events[i].ID, viewerID)
			if err != nil {
				return err
			}
			views[i] = buildView(events[i], count, registered)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

func buildView(event models.Event, count int64, registered bool) EventView {
	view := EventView{
		Event:              event,
		RegistrationsCount: count,
		IsRegistered:       registered,
	}
	if event.MaxParticipants != nil {
		left := int64(*event.MaxParticipants) - count
		if left < 0 {
			left = 0
		}
		view.SeatsLeft = &left
		view.IsFull = left == 0
	}
	return view
}
