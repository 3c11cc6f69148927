package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/thereayou/eventnet/internal/handlers/dto"
	"github.com/thereayou/eventnet/internal/middleware"
	"github.com/thereayou/eventnet/internal/models"
	"github.com/thereayou/eventnet/internal/services"
)

type UserHandler struct {
	accounts *services.AuthService
	graph    *services.ConnectionGraph
	log      *zerolog.Logger
}

func NewUserHandler(accounts *services.AuthService, graph *services.ConnectionGraph, log *zerolog.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, graph: graph, log: log}
}

// GetMe возвращает профиль текущего пользователя
func (h *UserHandler) GetMe(c *gin.Context) {
	dto.OK(c, http.StatusOK, middleware.CurrentSession(c).Profile)
}

// UpdateMe обновляет только переданные поля профиля
func (h *UserHandler) UpdateMe(c *gin.Context) {
	s := middleware.CurrentSession(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	user, err := h.accounts.UpdateProfile(c.Request.Context(), s.UserID, models.ProfilePatch{
		FullName:    req.FullName,
		Bio:         req.Bio,
		Company:     req.Company,
		Position:    req.Position,
		AvatarURL:   req.AvatarURL,
		LinkedInURL: req.LinkedInURL,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	dto.OK(c, http.StatusOK, user)
}

// Browse ищет профили по имени, компании и должности
func (h *UserHandler) Browse(c *gin.Context) {
	s := middleware.CurrentSession(c)

	profiles, err := h.graph.Browse(c.Request.Context(), s.UserID, c.Query("q"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	dto.OK(c, http.StatusOK, profiles)
}
