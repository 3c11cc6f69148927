package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/eventnet/internal/models"
)

func (d *Database) CreateEvent(ctx context.Context, event *models.Event) error {
	return d.db.WithContext(ctx).Create(event).Error
}

func (d *Database) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := d.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

// ListEvents возвращает все мероприятия по возрастанию даты
func (d *Database) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := d.db.WithContext(ctx).
		Order("date ASC").
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

func (d *Database) ListEventsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}
	var events []models.Event
	err := d.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("date ASC").
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
