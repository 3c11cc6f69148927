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
	"golang.org/x/sync/errgroup"
)

const chatFanout = 8

// ChatSummary: чат мероприятия с превью последнего сообщения
type ChatSummary struct {
	Event        models.Event
	MessageCount int64
	LastMessage  *models.Message
}

// ChatMembership определяет доступ к чатам мероприятий.
// Один чат на мероприятие, читать и писать могут только активные участники.
type ChatMembership struct {
	events   EventStore
	regs     RegistrationStore
	messages MessageStore
	log      *zerolog.Logger
	now      func() time.Time
}

func NewChatMembership(events EventStore, regs RegistrationStore, messages MessageStore, log *zerolog.Logger) *ChatMembership {
	return &ChatMembership{
		events:   events,
		regs:     regs,
		messages: messages,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AccessibleEvents возвращает мероприятия с активной регистрацией пользователя, по дате
func (m *ChatMembership) AccessibleEvents(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	ids, err := m.regs.ActiveEventIDs(ctx, userID)
	if err != nil {
		return nil, collaborator("list registrations", err)
	}
	events, err := m.events.ListEventsByIDs(ctx, ids)
	if err != nil {
		return nil, collaborator("list events", err)
	}
	return events, nil
}

// ChatSummaries возвращает доступные чаты в порядке AccessibleEvents,
// для каждого число сообщений и последнее из них
func (m *ChatMembership) ChatSummaries(ctx context.Context, userID uuid.UUID) ([]ChatSummary, error) {
	events, err := m.AccessibleEvents(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ChatSummary, len(events))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(chatFanout)

	for i := range events {
		g.Go(func() error {
			summaries[i].Event = events[i]

			count, err := m.messages.CountEventMessages(gctx, events[i].ID)
			if err != nil {
				return collaborator("count messages", err)
			}
			summaries[i].MessageCount = count
			if count == 0 {
				return nil
			}

			last, err := m.messages.LatestMessage(gctx, events[i].ID)
			switch {
			case errors.Is(err, database.ErrNotFound):
				return nil
			case err != nil:
				return collaborator("latest message", err)
			}
			summaries[i].LastMessage = last
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// EnsureMember возвращает ErrNotAMember без активной регистрации
func (m *ChatMembership) EnsureMember(ctx context.Context, userID, eventID uuid.UUID) error {
	_, err := m.regs.FindActiveRegistration(ctx, eventID, userID)
	if err == nil {
		return nil
	}
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotAMember
	}
	return collaborator("find registration", err)
}

// FetchTranscript возвращает переписку по (created_at, seq)
func (m *ChatMembership) FetchTranscript(ctx context.Context, eventID uuid.UUID) ([]models.Message, error) {
	messages, err := m.messages.GetEventMessages(ctx, eventID)
	if err != nil {
		return nil, collaborator("fetch transcript", err)
	}
	return messages, nil
}

func (m *ChatMembership) TranscriptFor(ctx context.Context, userID, eventID uuid.UUID) ([]models.Message, error) {
	if err := m.EnsureMember(ctx, userID, eventID); err != nil {
		return nil, err
	}
	return m.FetchTranscript(ctx, eventID)
}

// SendMessage добавляет сообщение и возвращает сохранённую запись
func (m *ChatMembership) SendMessage(ctx context.Context, eventID, senderID uuid.UUID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if err := m.EnsureMember(ctx, senderID, eventID); err != nil {
		return nil, err
	}

	message := &models.Message{
		EventID:   eventID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: m.now(),
	}
	if err := m.messages.AppendMessage(ctx, message); err != nil {
		return nil, collaborator("append message", err)
	}

	m.log.Debug().
		Str("event_id", eventID.String()).
		Str("user_id", senderID.String()).
		Int64("seq", message.Seq).
		Msg("message sent")
	return message, nil
}
