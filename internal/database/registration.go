package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/eventnet/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookRegistration атомарно проверяет дубликат и вместимость и создаёт запись.
// Строка мероприятия блокируется на время транзакции.
func (d *Database) BookRegistration(ctx context.Context, eventID, userID uuid.UUID) (*models.Registration, error) {
	var reg *models.Registration

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ?", eventID).Error; err != nil {
			return notFound(err)
		}

		var existing int64
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ? AND user_id = ? AND status = ?", eventID, userID, models.RegistrationRegistered).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		if event.MaxParticipants != nil {
			var count int64
			if err := tx.Model(&models.Registration{}).
				Where("event_id = ? AND status = ?", eventID, models.RegistrationRegistered).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(*event.MaxParticipants) {
				return ErrEventFull
			}
		}

		reg = &models.Registration{
			EventID: eventID,
			UserID:  userID,
			Status:  models.RegistrationRegistered,
		}
		return tx.Create(reg).Error
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// CancelRegistration удаляет активную запись и возвращает число удалённых строк
func (d *Database) CancelRegistration(ctx context.Context, eventID, userID uuid.UUID) (int64, error) {
	res := d.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ? AND status = ?", eventID, userID, models.RegistrationRegistered).
		Delete(&models.Registration{})
	return res.RowsAffected, res.Error
}

func (d *Database) CountActiveRegistrations(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.Registration{}).
		Where("event_id = ? AND status = ?", eventID, models.RegistrationRegistered).
		Count(&count).Error
	return count, err
}

func (d *Database) FindActiveRegistration(ctx context.Context, eventID, userID uuid.UUID) (*models.Registration, error) {
	var reg models.Registration
	err := d.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ? AND status = ?", eventID, userID, models.RegistrationRegistered).
		First(&reg).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &reg, nil
}

// ActiveEventIDs возвращает мероприятия, на которые пользователь зарегистрирован
func (d *Database) ActiveEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.WithContext(ctx).Model(&models.Registration{}).
		Where("user_id = ? AND status = ?", userID, models.RegistrationRegistered).
		Pluck("event_id", &ids).Error
	return ids, err
}

// MarkAttended переводит активную запись в attended
func (d *Database) MarkAttended(ctx context.Context, eventID, userID uuid.UUID) error {
	res := d.db.WithContext(ctx).Model(&models.Registration{}).
		Where("event_id = ? AND user_id = ? AND status = ?", eventID, userID, models.RegistrationRegistered).
		Update("status", models.RegistrationAttended)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
