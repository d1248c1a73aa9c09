package guilds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/unionhq/membercard-backend/pkg/db/models"
	pkgerrors "github.com/unionhq/membercard-backend/pkg/errors"
)

type guildConfigRepository interface {
	FindByGuildID(ctx context.Context, guildID string) (*models.GuildConfig, error)
	Upsert(ctx context.Context, cfg *models.GuildConfig) error
}

// Service manages per-guild channel settings used by the chat-platform side.
type Service interface {
	GetConfig(ctx context.Context, guildID string) (*models.GuildConfig, error)
	UpsertConfig(ctx context.Context, guildID string, input ConfigInput) (*models.GuildConfig, error)
}

// ConfigInput carries the updatable settings. Nil pointers clear the channel.
type ConfigInput struct {
	RegistrationChannelID *string
	ApprovalChannelID     *string
}

type service struct {
	repo guildConfigRepository
}

func NewService(repo guildConfigRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("guild config repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetConfig(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guild_id is required")
	}

	cfg, err := s.repo.FindByGuildID(ctx, guildID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "guild config not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup guild config")
	}
	return cfg, nil
}

func (s *service) UpsertConfig(ctx context.Context, guildID string, input ConfigInput) (*models.GuildConfig, error) {
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guild_id is required")
	}

	cfg := &models.GuildConfig{
		GuildID:               guildID,
		RegistrationChannelID: input.RegistrationChannelID,
		ApprovalChannelID:     input.ApprovalChannelID,
	}
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert guild config")
	}

	// Re-read so the caller sees the stored row, id and timestamps included.
	stored, err := s.repo.FindByGuildID(ctx, guildID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload guild config")
	}
	return stored, nil
}
