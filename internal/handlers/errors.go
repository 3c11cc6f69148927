package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thereayou/eventnet/internal/handlers/dto"
	"github.com/thereayou/eventnet/internal/services"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrNotFound, http.StatusNotFound, dto.NotFound},
	{services.ErrNotAuthorized, http.StatusForbidden, dto.Forbidden},
	{services.ErrNotAMember, http.StatusForbidden, dto.NotAMember},
	{services.ErrInvalidTransition, http.StatusConflict, dto.InvalidTransition},
	{services.ErrDuplicateRequest, http.StatusConflict, dto.DuplicateRequest},
	{services.ErrAlreadyRegistered, http.StatusConflict, dto.AlreadyRegistered},
	{services.ErrEventFull, http.StatusConflict, dto.EventFull},
	{services.ErrAlreadyExists, http.StatusConflict, dto.EmailTaken},
	{services.ErrSelfConnection, http.StatusBadRequest, dto.SelfConnection},
	{services.ErrEmptyMessage, http.StatusBadRequest, dto.EmptyMessage},
	{services.ErrInvalidInput, http.StatusBadRequest, dto.FieldIncorrect},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, dto.InvalidCredentials},
}

// describeError возвращает HTTP статус, код и текст для клиента.
// Для сбоев хранилища текст общий, причина остаётся в логе.
func describeError(err error) (int, string, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code, err.Error()
		}
	}
	if errors.Is(err, services.ErrCollaboratorFailure) {
		return http.StatusServiceUnavailable, dto.ServiceUnavailable, dto.InternalError
	}
	return http.StatusInternalServerError, dto.InternalServerError, dto.InternalError
}

func writeError(c *gin.Context, log *zerolog.Logger, err error) {
	status, code, desc := describeError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	dto.Error(c, status, code, desc)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		dto.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
