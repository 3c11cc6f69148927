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

type ConnectionHandler struct {
	graph *services.ConnectionGraph
	log   *zerolog.Logger
}

func NewConnectionHandler(graph *services.ConnectionGraph, log *zerolog.Logger) *ConnectionHandler {
	return &ConnectionHandler{graph: graph, log: log}
}

// ListAccepted возвращает контакты текущего пользователя
func (h *ConnectionHandler) ListAccepted(c *gin.Context) {
	s := middleware.CurrentSession(c)

	contacts, err := h.graph.ListAccepted(c.Request.Context(), s.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	dto.OK(c, http.StatusOK, contacts)
}

func (h *ConnectionHandler) ListPending(c *gin.Context) {
	s := middleware.CurrentSession(c)

	pending, err := h.graph.ListPending(c.Request.Context(), s.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	dto.OK(c, http.StatusOK, pending)
}

func (h *ConnectionHandler) Request(c *gin.Context) {
	s := middleware.CurrentSession(c)

	var req dto.ConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	conn, err := h.graph.RequestConnection(c.Request.Context(), s.UserID, req.ReceiverID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	dto.OK(c, http.StatusCreated, conn)
}

func (h *ConnectionHandler) Respond(c *gin.Context) {
	s := middleware.CurrentSession(c)
	connID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	conn, err := h.graph.Respond(c.Request.Context(), s.UserID, connID, models.ConnectionStatus(req.Outcome))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	dto.OK(c, http.StatusOK, conn)
}

// Status показывает связь с пользователем с точки зрения текущего
func (h *ConnectionHandler) Status(c *gin.Context) {
	s := middleware.CurrentSession(c)
	otherID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		return
	}

	rel, err := h.graph.StatusBetween(c.Request.Context(), s.UserID, otherID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	dto.OK(c, http.StatusOK, rel)
}
