package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thereayou/eventnet/internal/handlers/dto"
	"github.com/thereayou/eventnet/internal/models"
	"github.com/thereayou/eventnet/internal/services"
	"github.com/thereayou/eventnet/internal/websocket"
)

// запрос одного фрейма к хранилищу
const frameTimeout = 10 * time.Second

// ChatSession хранит чат-контекст одного соединения. Владеет опросчиком
// выбранного чата и освобождает его при закрытии соединения.
type ChatSession struct {
	client *websocket.Client
	chat   *services.ChatMembership
	poller *services.TranscriptPoller
	log    *zerolog.Logger
}

func NewChatSession(client *websocket.Client, chat *services.ChatMembership, interval time.Duration, log *zerolog.Logger) *ChatSession {
	s := &ChatSession{client: client, chat: chat, log: log}

	userID := client.UserID
	fetch := func(ctx context.Context, eventID uuid.UUID) ([]models.Message, error) {
		return chat.TranscriptFor(ctx, userID, eventID)
	}
	s.poller = services.NewTranscriptPoller(fetch, s.deliver, interval, log)
	return s
}

func (s *ChatSession) deliver(eventID uuid.UUID, messages []models.Message, err error) bool {
	if err != nil {
		status, code, desc := describeError(err)
		if status >= 500 {
			s.log.Error().Err(err).Str("event_id", eventID.String()).Msg("transcript poll failed")
		}
		s.client.SendError(&eventID, code, desc)
		// доступ к чату потерян, например после отмены регистрации
		return !errors.Is(err, services.ErrNotAMember)
	}
	if err := s.client.SendMessage(websocket.TypeTranscript, &eventID, dto.NewTranscript(messages)); err != nil {
		s.log.Debug().Err(err).Str("event_id", eventID.String()).Msg("transcript frame dropped")
	}
	return true
}

func (s *ChatSession) HandleMessage(client *websocket.Client, msg *websocket.Message) error {
	switch msg.Type {
	case websocket.TypeChatSelect:
		return s.handleSelect(msg)

	case websocket.TypeChatLeave:
		s.poller.Deselect()
		return nil

	case websocket.TypeChatSend:
		return s.handleSend(msg)

	default:
		return websocket.ErrUnknownType
	}
}

// Close освобождает опросчик соединения
func (s *ChatSession) Close() {
	s.poller.Close()
}

func (s *ChatSession) handleSelect(msg *websocket.Message) error {
	if msg.EventID == nil {
		return websocket.ErrInvalidMessage
	}

	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()

	if err := s.chat.EnsureMember(ctx, s.client.UserID, *msg.EventID); err != nil {
		return coded(err)
	}
	return s.poller.Select(*msg.EventID)
}

func (s *ChatSession) handleSend(msg *websocket.Message) error {
	if msg.EventID == nil {
		return websocket.ErrInvalidMessage
	}

	var payload dto.MessagePayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		return websocket.ErrInvalidMessage
	}

	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()

	message, err := s.chat.SendMessage(ctx, *msg.EventID, s.client.UserID, payload.Content)
	if err != nil {
		return coded(err)
	}

	if err := s.client.SendMessage(websocket.TypeMessageSent, msg.EventID, dto.NewMessageResponse(message)); err != nil {
		return err
	}

	// свежая переписка для отправителя, если этот чат открыт
	if selected, ok := s.poller.Selected(); ok && selected == *msg.EventID {
		s.poller.Refresh()
	}
	return nil
}

func coded(err error) error {
	_, code, desc := describeError(err)
	return &websocket.CodedError{Code: code, Err: errors.New(desc)}
}
