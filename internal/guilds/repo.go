package guilds

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unionhq/membercard-backend/pkg/db/models"
)

// Repository persists per-guild settings. One row per guild id.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByGuildID retrieves the settings row for a guild.
func (r *Repository) FindByGuildID(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	var cfg models.GuildConfig
	err := r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert writes the settings row, inserting on first contact and updating
// the channel columns afterwards.
func (r *Repository) Upsert(ctx context.Context, cfg *models.GuildConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"registration_channel_id", "approval_channel_id", "updated_at"}),
		}).
		Create(cfg).Error
}
