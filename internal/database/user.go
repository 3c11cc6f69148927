package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/thereayou/eventnet/internal/models"
	"gorm.io/gorm"
)

func (d *Database) SaveUser(ctx context.Context, user *models.User) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailTaken
		}
		return tx.Create(user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (d *Database) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UpdateProfile обновляет только переданные поля и возвращает свежую запись
func (d *Database) UpdateProfile(ctx context.Context, id uuid.UUID, patch models.ProfilePatch) (*models.User, error) {
	cols := patch.Columns()
	if len(cols) > 0 {
		res := d.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return d.GetUser(ctx, id)
}

// % и _ во вводе пользователя ищутся буквально
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListProfiles возвращает профили всех пользователей, кроме exclude.
// search ищет подстроку без учёта регистра в имени, компании и должности.
func (d *Database) ListProfiles(ctx context.Context, exclude uuid.UUID, search string) ([]models.User, error) {
	var users []models.User

	query := d.db.WithContext(ctx).Where("id <> ?", exclude)
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		query = query.Where(
			`LOWER(COALESCE(full_name, '')) LIKE ? ESCAPE '\' OR `+
				`LOWER(COALESCE(company, '')) LIKE ? ESCAPE '\' OR `+
				`LOWER(COALESCE(position, '')) LIKE ? ESCAPE '\'`,
			like, like, like,
		)
	}

	err := query.Order("COALESCE(full_name, '') ASC").Order("email ASC").Find(&users).Error
	return users, err
}
