package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/thereayou/eventnet/internal/middleware"
	"github.com/thereayou/eventnet/internal/services"
	ws "github.com/thereayou/eventnet/internal/websocket"
)

// WebSocketHandler управляет WebSocket соединениями
type WebSocketHandler struct {
	hub          *ws.Hub
	chat         *services.ChatMembership
	pollInterval time.Duration
	upgrader     websocket.Upgrader
	log          *zerolog.Logger
}

// NewWebSocketHandler создает новый WebSocket handler.
// allowOrigin решает, можно ли принять upgrade с данного Origin.
func NewWebSocketHandler(hub *ws.Hub, chat *services.ChatMembership, pollInterval time.Duration, allowOrigin func(string) bool, log *zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		chat:         chat,
		pollInterval: pollInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin(origin)
			},
		},
		log: log,
	}
}

// HandleWebSocket обрабатывает WebSocket соединения
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	s := middleware.CurrentSession(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, s.UserID, h.log)
	client.Token = s.Token
	session := NewChatSession(client, h.chat, h.pollInterval, h.log)

	go client.Serve(session)
}
