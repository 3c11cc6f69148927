package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/eventnet/internal/models"
	"gorm.io/gorm"
)

// CreateConnection создаёт запрос, если для пары ещё нет ни одной записи
func (d *Database) CreateConnection(ctx context.Context, conn *models.Connection) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Connection{}).
			Where("pair_key = ?", models.PairKey(conn.RequesterID, conn.ReceiverID)).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrConnectionExists
		}
		return tx.Create(conn).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConnectionExists
	}
	return err
}

func (d *Database) GetConnection(ctx context.Context, id uuid.UUID) (*models.Connection, error) {
	var conn models.Connection
	err := d.db.WithContext(ctx).
		Preload("Requester").
		Preload("Receiver").
		First(&conn, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &conn, nil
}

// FindConnectionBetween ищет связь без учёта направления
func (d *Database) FindConnectionBetween(ctx context.Context, a, b uuid.UUID) (*models.Connection, error) {
	var conn models.Connection
	err := d.db.WithContext(ctx).
		Where("pair_key = ?", models.PairKey(a, b)).
		First(&conn).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &conn, nil
}

// TransitionConnection меняет статус только если текущий равен from
func (d *Database) TransitionConnection(ctx context.Context, id uuid.UUID, from, to models.ConnectionStatus) (*models.Connection, error) {
	res := d.db.WithContext(ctx).Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStaleTransition
	}
	return d.GetConnection(ctx, id)
}

// ListPendingFor возвращает входящие запросы, старые первыми
func (d *Database) ListPendingFor(ctx context.Context, receiverID uuid.UUID) ([]models.Connection, error) {
	var conns []models.Connection
	err := d.db.WithContext(ctx).
		Preload("Requester").
		Preload("Receiver").
		Where("receiver_id = ? AND status = ?", receiverID, models.ConnectionPending).
		Order("created_at ASC").
		Order("id ASC").
		Find(&conns).Error
	return conns, err
}

// ListConnectionsFor возвращает связи пользователя в любом направлении.
// Пустой status означает все статусы.
func (d *Database) ListConnectionsFor(ctx context.Context, userID uuid.UUID, status models.ConnectionStatus) ([]models.Connection, error) {
	var conns []models.Connection

	query := d.db.WithContext(ctx).
		Preload("Requester").
		Preload("Receiver").
		Where("(requester_id = ? OR receiver_id = ?)", userID, userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	err := query.Order("updated_at ASC").Order("id ASC").Find(&conns).Error
	return conns, err
}
