package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuildConfig holds per-community bot settings: the channels where
// registration and approval notices are posted. Upsert semantics, keyed by
// the chat-platform guild id.
type GuildConfig struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	GuildID               string    `gorm:"column:guild_id;type:text;not null;uniqueIndex:idx_guild_configs_guild_id"`
	RegistrationChannelID *string   `gorm:"column:registration_channel_id"`
	ApprovalChannelID     *string   `gorm:"column:approval_channel_id"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (g *GuildConfig) BeforeCreate(_ *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
