package guilds

import (
	"github.com/unionhq/membercard-backend/pkg/db/models"
)

// ConfigDTO is the transport shape for guild settings.
type ConfigDTO struct {
	GuildID               string  `json:"guild_id"`
	RegistrationChannelID *string `json:"registration_channel_id"`
	ApprovalChannelID     *string `json:"approval_channel_id"`
}

func ToDTO(cfg *models.GuildConfig) *ConfigDTO {
	if cfg == nil {
		return nil
	}
	return &ConfigDTO{
		GuildID:               cfg.GuildID,
		RegistrationChannelID: copyStringPointer(cfg.RegistrationChannelID),
		ApprovalChannelID:     copyStringPointer(cfg.ApprovalChannelID),
	}
}

func copyStringPointer(src *string) *string {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
