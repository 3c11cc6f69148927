package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thereayou/eventnet/internal/database"
	"github.com/thereayou/eventnet/internal/models"
)

// RelationState описывает связь с точки зрения конкретного пользователя
type RelationState string

const (
	StateNone            RelationState = "none"
	StatePendingOutgoing RelationState = "pending-outgoing"
	StatePendingIncoming RelationState = "pending-incoming"
	StateAccepted        RelationState = "accepted"
	StateRejected        RelationState = "rejected"
)

type Relation struct {
	State      RelationState      `json:"state"`
	Connection *models.Connection `json:"connection,omitempty"`
}

// Contact: принятая связь, развёрнутая к профилю второй стороны
type Contact struct {
	ConnectionID uuid.UUID   `json:"connection_id"`
	Profile      models.User `json:"profile"`
}

type ProfileRelation struct {
	Profile  models.User `json:"profile"`
	Relation Relation    `json:"relation"`
}

type ConnectionGraph struct {
	conns ConnectionStore
	users UserStore
	log   *zerolog.Logger
}

func NewConnectionGraph(conns ConnectionStore, users UserStore, log *zerolog.Logger) *ConnectionGraph {
	return &ConnectionGraph{conns: conns, users: users, log: log}
}

// resolveState переводит статус строки в состояние относительно viewer
func resolveState(conn *models.Connection, viewer uuid.UUID) RelationState {
	if conn == nil {
		return StateNone
	}
	switch conn.Status {
	case models.ConnectionAccepted:
		return StateAccepted
	case models.ConnectionRejected:
		return StateRejected
	}
	if conn.RequesterID == viewer {
		return StatePendingOutgoing
	}
	return StatePendingIncoming
}

// RequestConnection создаёт запрос в статусе pending.
// Любая существующая строка для пары, включая отклонённую, блокирует новый запрос.
func (g *ConnectionGraph) RequestConnection(ctx context.Context, requesterID, receiverID uuid.UUID) (*models.Connection, error) {
	if requesterID == receiverID {
		return nil, ErrSelfConnection
	}

	if _, err := g.users.GetUser(ctx, receiverID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, collaborator("get receiver", err)
	}

	conn := &models.Connection{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.ConnectionPending,
	}
	if err := g.conns.CreateConnection(ctx, conn); err != nil {
		if errors.Is(err, database.ErrConnectionExists) {
			return nil, ErrDuplicateRequest
		}
		return nil, collaborator("create connection", err)
	}

	g.log.Info().
		Str("connection_id", conn.ID.String()).
		Str("requester_id", requesterID.String()).
		Str("receiver_id", receiverID.String()).
		Msg("connection requested")
	return conn, nil
}

// Respond принимает или отклоняет входящий запрос. Ответить может только получатель.
func (g *ConnectionGraph) Respond(ctx context.Context, callerID, connectionID uuid.UUID, outcome models.ConnectionStatus) (*models.Connection, error) {
	if outcome != models.ConnectionAccepted && outcome != models.ConnectionRejected {
		return nil, ErrInvalidTransition
	}

	conn, err := g.conns.GetConnection(ctx, connectionID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, collaborator("get connection", err)
	}
	if conn.ReceiverID != callerID {
		return nil, ErrNotAuthorized
	}
	if conn.Status != models.ConnectionPending {
		return nil, ErrInvalidTransition
	}

	updated, err := g.conns.TransitionConnection(ctx, connectionID, models.ConnectionPending, outcome)
	if err != nil {
		// параллельный ответ успел раньше
		if errors.Is(err, database.ErrStaleTransition) {
			return nil, ErrInvalidTransition
		}
		return nil, collaborator("update connection", err)
	}

	g.log.Info().
		Str("connection_id", connectionID.String()).
		Str("status", string(outcome)).
		Msg("connection answered")
	return updated, nil
}

// StatusBetween возвращает состояние пары с точки зрения a
func (g *ConnectionGraph) StatusBetween(ctx context.Context, a, b uuid.UUID) (Relation, error) {
	conn, err := g.conns.FindConnectionBetween(ctx, a, b)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return Relation{State: StateNone}, nil
		}
		return Relation{}, collaborator("find connection", err)
	}
	return Relation{State: resolveState(conn, a), Connection: conn}, nil
}

// ListPending возвращает входящие запросы, старые первыми
func (g *ConnectionGraph) ListPending(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	conns, err := g.conns.ListPendingFor(ctx, userID)
	if err != nil {
		return nil, collaborator("list pending", err)
	}
	return conns, nil
}

func (g *ConnectionGraph) ListAccepted(ctx context.Context, userID uuid.UUID) ([]Contact, error) {
	conns, err := g.conns.ListConnectionsFor(ctx, userID, models.ConnectionAccepted)
	if err != nil {
		return nil, collaborator("list accepted", err)
	}

	contacts := make([]Contact, 0, len(conns))
	for _, conn := range conns {
		other := conn.Requester
		if conn.RequesterID == userID {
			other = conn.Receiver
		}
		contacts = append(contacts, Contact{ConnectionID: conn.ID, Profile: other})
	}
	return contacts, nil
}

// Browse отдаёт все профили, кроме viewer, с состоянием связи для каждого
func (g *ConnectionGraph) Browse(ctx context.Context, viewerID uuid.UUID, search string) ([]ProfileRelation, error) {
	profiles, err := g.users.ListProfiles(ctx, viewerID, search)
	if err != nil {
		return nil, collaborator("list profiles", err)
	}

	conns, err := g.conns.ListConnectionsFor(ctx, viewerID, "")
	if err != nil {
		return nil, collaborator("list connections", err)
	}

	byOther := make(map[uuid.UUID]*models.Connection, len(conns))
	for i := range conns {
		byOther[conns[i].Other(viewerID)] = &conns[i]
	}

	result := make([]ProfileRelation, 0, len(profiles))
	for _, p := range profiles {
		conn := byOther[p.ID]
		result = append(result, ProfileRelation{
			Profile:  p,
			Relation: Relation{State: resolveState(conn, viewerID), Connection: conn},
		})
	}
	return result, nil
}
