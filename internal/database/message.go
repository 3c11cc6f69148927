package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/thereayou/eventnet/internal/models"
	"gorm.io/gorm"
)

const appendRetries = 3

// AppendMessage сохраняет сообщение со следующим seq мероприятия.
// Конфликт по (event_id, seq) при гонке повторяется.
func (d *Database) AppendMessage(ctx context.Context, message *models.Message) error {
	var err error
	for attempt := 0; attempt < appendRetries; attempt++ {
		err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var last int64
			if err := tx.Model(&models.Message{}).
				Where("event_id = ?", message.EventID).
				Select("COALESCE(MAX(seq), 0)").
				Scan(&last).Error; err != nil {
				return err
			}
			message.Seq = last + 1
			return tx.Create(message).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		message.ID = uuid.Nil
	}
	return err
}

func (d *Database) GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := d.db.WithContext(ctx).Preload("Sender").First(&message, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &message, nil
}

// GetEventMessages возвращает переписку мероприятия в порядке отправки
func (d *Database) GetEventMessages(ctx context.Context, eventID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Order("seq ASC").
		Preload("Sender").
		Find(&messages).Error
	return messages, err
}

// LatestMessage возвращает последнее сообщение чата в порядке переписки
func (d *Database) LatestMessage(ctx context.Context, eventID uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Order("seq DESC").
		Preload("Sender").
		First(&message).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &message, nil
}

func (d *Database) CountEventMessages(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.Message{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}
