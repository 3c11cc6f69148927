package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/thereayou/eventnet/internal/handlers/dto"
	"github.com/thereayou/eventnet/internal/middleware"
	"github.com/thereayou/eventnet/internal/services"
)

type HTTPMessageHandler struct {
	chat *services.ChatMembership
	log  *zerolog.Logger
}

func NewHTTPMessageHandler(chat *services.ChatMembership, log *zerolog.Logger) *HTTPMessageHandler {
	return &HTTPMessageHandler{chat: chat, log: log}
}

// ListChats возвращает чаты мероприятий, где пользователь зарегистрирован,
// с превью последнего сообщения
func (h *HTTPMessageHandler) ListChats(c *gin.Context) {
	s := middleware.CurrentSession(c)

	summaries, err := h.chat.ChatSummaries(c.Request.Context(), s.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	dto.OK(c, http.StatusOK, dto.NewChatList(summaries))
}

// GetEventMessages получает переписку мероприятия
func (h *HTTPMessageHandler) GetEventMessages(c *gin.Context) {
	s := middleware.CurrentSession(c)
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	messages, err := h.chat.TranscriptFor(c.Request.Context(), s.UserID, eventID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	dto.OK(c, http.StatusOK, dto.NewTranscript(messages))
}

// SendMessage отправляет сообщение через HTTP (альтернатива WebSocket)
func (h *HTTPMessageHandler) SendMessage(c *gin.Context) {
	s := middleware.CurrentSession(c)
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.MessagePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	message, err := h.chat.SendMessage(c.Request.Context(), eventID, s.UserID, req.Content)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	message.Sender = *s.Profile

	dto.OK(c, http.StatusCreated, dto.NewMessageResponse(message))
}
