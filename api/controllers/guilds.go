package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unionhq/membercard-backend/api/responses"
	"github.com/unionhq/membercard-backend/api/validators"
	"github.com/unionhq/membercard-backend/internal/guilds"
	pkgerrors "github.com/unionhq/membercard-backend/pkg/errors"
	"github.com/unionhq/membercard-backend/pkg/logger"
)

type guildConfigRequest struct {
	RegistrationChannelID *string `json:"registration_channel_id"`
	ApprovalChannelID     *string `json:"approval_channel_id"`
}

// GuildConfigGet returns the stored channel settings for a guild.
func GuildConfigGet(svc guilds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guild service unavailable"))
			return
		}

		guildID := chi.URLParam(r, "guildId")
		ctx := logg.WithGuildID(r.Context(), guildID)

		cfg, err := svc.GetConfig(ctx, guildID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, guilds.ToDTO(cfg))
	}
}

// GuildConfigUpsert stores channel settings, creating the row on first write.
func GuildConfigUpsert(svc guilds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guild service unavailable"))
			return
		}

		guildID := chi.URLParam(r, "guildId")
		ctx := logg.WithGuildID(r.Context(), guildID)

		var payload guildConfigRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cfg, err := svc.UpsertConfig(ctx, guildID, guilds.ConfigInput{
			RegistrationChannelID: payload.RegistrationChannelID,
			ApprovalChannelID:     payload.ApprovalChannelID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, guilds.ToDTO(cfg))
	}
}
