package domain

import (
	"time"

	"gorm.io/datatypes"
)

// User mirrors a Telegram account that has interacted with the bot. This table
// is an activity registry; the filesystem stays the source of truth for asset
// presence and the has_* columns are best-effort snapshots.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TelegramID   int64     `gorm:"column:telegram_id;uniqueIndex;not null" json:"telegram_id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"column:first_name" json:"first_name"`
	LastName     string    `gorm:"column:last_name" json:"last_name"`
	RegisteredAt time.Time `gorm:"column:registered_at;autoCreateTime" json:"registered_at"`
	LastActivity time.Time `gorm:"column:last_activity;autoUpdateTime" json:"last_activity"`
	HasPhoto     bool      `gorm:"column:has_photo;default:false" json:"has_photo"`
	HasAudio     bool      `gorm:"column:has_audio;default:false" json:"has_audio"`
}

func (User) TableName() string { return "users" }

// ActivityEvent is an append-only audit record of bot events. Details carries
// event-specific fields (file sizes, selected ids) as JSON.
type ActivityEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"index;not null" json:"username"`
	Kind      string         `gorm:"not null" json:"kind"`
	Details   datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ActivityEvent) TableName() string { return "activity_events" }
