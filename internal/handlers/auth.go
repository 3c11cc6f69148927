package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thereayou/eventnet/internal/handlers/dto"
	"github.com/thereayou/eventnet/internal/middleware"
	"github.com/thereayou/eventnet/internal/services"
	"github.com/thereayou/eventnet/internal/session"
)

// SessionSockets закрывает websocket соединения завершённой сессии
type SessionSockets interface {
	DisconnectSession(userID uuid.UUID, token string) int
}

type AuthHandler struct {
	accounts *services.AuthService
	sessions *session.Manager
	sockets  SessionSockets
	log      *zerolog.Logger
}

func NewAuthHandler(accounts *services.AuthService, sessions *session.Manager, sockets SessionSockets, log *zerolog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions, sockets: sockets, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	res, err := h.accounts.SignUp(c.Request.Context(), services.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	dto.OK(c, http.StatusCreated, res)
}

// Login выдаёт JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	res, err := h.accounts.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	dto.OK(c, http.StatusOK, res)
}

// Logout ставит токен в черный список до истечения и закрывает
// открытые с ним websocket соединения
func (h *AuthHandler) Logout(c *gin.Context) {
	s := middleware.CurrentSession(c)
	if err := h.sessions.Teardown(c.Request.Context(), s); err != nil {
		h.log.Error().Err(err).Str("user_id", s.UserID.String()).Msg("logout failed")
		dto.Error(c, http.StatusServiceUnavailable, dto.ServiceUnavailable, dto.InternalError)
		return
	}
	h.sockets.DisconnectSession(s.UserID, s.Token)
	c.Status(http.StatusNoContent)
}
