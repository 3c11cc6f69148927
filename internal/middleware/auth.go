package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/eventnet/internal/handlers/dto"
	"github.com/thereayou/eventnet/internal/session"
	"github.com/thereayou/eventnet/pkg/auth"
)

const SessionKey = "session"

// AuthMiddleware проверяет JWT токен и кладёт сессию в контекст
func AuthMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.Request)
		if err != nil {
			dto.Unauthorized(c, "missing or invalid token")
			c.Abort()
			return
		}
		authenticate(c, manager, token)
	}
}

// WSAuthMiddleware специальный middleware для WebSocket: браузер не может
// передать заголовок при upgrade, поэтому токен читается и из query
func WSAuthMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token, _ = auth.BearerToken(c.Request)
		}

		if token == "" {
			dto.Unauthorized(c, "missing token")
			c.Abort()
			return
		}
		authenticate(c, manager, token)
	}
}

func authenticate(c *gin.Context, manager *session.Manager, token string) {
	s, err := manager.Initialize(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrRevoked):
			dto.Unauthorized(c, "token is blacklisted")
		case errors.Is(err, session.ErrInvalidToken), errors.Is(err, session.ErrUnknownUser):
			dto.Unauthorized(c, "invalid token")
		default:
			dto.Error(c, http.StatusServiceUnavailable, dto.ServiceUnavailable, dto.InternalError)
		}
		c.Abort()
		return
	}

	c.Set(SessionKey, s)
	c.Next()
}

// CurrentSession возвращает сессию, установленную AuthMiddleware
func CurrentSession(c *gin.Context) *session.Session {
	return c.MustGet(SessionKey).(*session.Session)
}
