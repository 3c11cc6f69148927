package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/thereayou/eventnet/internal/handlers/dto"
	"github.com/thereayou/eventnet/internal/middleware"
	"github.com/thereayou/eventnet/internal/services"
)

type EventHandler struct {
	events *services.RegistrationAggregator
	log    *zerolog.Logger
}

func NewEventHandler(events *services.RegistrationAggregator, log *zerolog.Logger) *EventHandler {
	return &EventHandler{events: events, log: log}
}

func (h *EventHandler) List(c *gin.Context) {
	s := middleware.CurrentSession(c)

	views, err := h.events.ListEvents(c.Request.Context(), s.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	dto.OK(c, http.StatusOK, views)
}

func (h *EventHandler) Create(c *gin.Context) {
	s := middleware.CurrentSession(c)

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	event, err := h.events.CreateEvent(c.Request.Context(), s.UserID, services.EventInput{
		Title:           req.Title,
		Description:     req.Description,
		EventType:       req.EventType,
		Format:          req.Format,
		Date:            req.Date.Time,
		EndDate:         req.EndDate.Ptr(),
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	dto.OK(c, http.StatusCreated, event)
}

func (h *EventHandler) Get(c *gin.Context) {
	s := middleware.CurrentSession(c)
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.events.ViewEvent(c.Request.Context(), s.UserID, eventID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	dto.OK(c, http.StatusOK, view)
}

// Register записывает текущего пользователя на мероприятие
func (h *EventHandler) Register(c *gin.Context) {
	s := middleware.CurrentSession(c)
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	reg, err := h.events.Register(c.Request.Context(), eventID, s.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	dto.OK(c, http.StatusCreated, reg)
}

// Unregister идемпотентен: без регистрации тоже 204
func (h *EventHandler) Unregister(c *gin.Context) {
	s := middleware.CurrentSession(c)
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.events.Unregister(c.Request.Context(), eventID, s.UserID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) MarkAttended(c *gin.Context) {
	s := middleware.CurrentSession(c)
	eventID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.events.MarkAttended(c.Request.Context(), s.UserID, eventID, userID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
