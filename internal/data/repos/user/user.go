package user

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dimonss/BirthdayBackend/internal/domain"
	"github.com/dimonss/BirthdayBackend/internal/platform/logger"
)

// Repo records who used the bot and what happened, as a peripheral audit log.
// Callers treat failures as non-fatal: an unreachable database never blocks
// event handling.
type Repo interface {
	Register(ctx context.Context, u *domain.User) error
	UpdateFileStatus(ctx context.Context, telegramID int64, hasPhoto, hasAudio bool) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	Delete(ctx context.Context, telegramID int64) error
	LogEvent(ctx context.Context, username, kind string, details map[string]any) error
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	return &repo{db: db, log: baseLog.With("repo", "UserRepo")}
}

// Register upserts on telegram_id, refreshing the profile fields and the
// last-activity timestamp.
func (r *repo) Register(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "telegram_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "first_name", "last_name", "last_activity",
			}),
		}).
		Create(u).Error
}

func (r *repo) UpdateFileStatus(ctx context.Context, telegramID int64, hasPhoto, hasAudio bool) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("telegram_id = ?", telegramID).
		Updates(map[string]any{"has_photo": hasPhoto, "has_audio": hasAudio}).Error
}

func (r *repo) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) Delete(ctx context.Context, telegramID int64) error {
	return r.db.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		Delete(&domain.User{}).Error
}

func (r *repo) LogEvent(ctx context.Context, username, kind string, details map[string]any) error {
	ev := domain.ActivityEvent{Username: username, Kind: kind}
	if len(details) > 0 {
		data, err := json.Marshal(details)
		if err != nil {
			return err
		}
		ev.Details = data
	}
	return r.db.WithContext(ctx).Create(&ev).Error
}
