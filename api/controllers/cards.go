package controllers

import (
	"context"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/unionhq/membercard-backend/api/responses"
	"github.com/unionhq/membercard-backend/internal/members"
	"github.com/unionhq/membercard-backend/pkg/db/models"
	"github.com/unionhq/membercard-backend/pkg/enums"
	pkgerrors "github.com/unionhq/membercard-backend/pkg/errors"
	"github.com/unionhq/membercard-backend/pkg/logger"
	"github.com/unionhq/membercard-backend/pkg/metrics"
)

type avatarFetcher interface {
	Fetch(ctx context.Context, rawURL string) (image.Image, error)
}

type cardRenderer interface {
	Render(ctx context.Context, member *models.Member, avatar image.Image) ([]byte, error)
}

// CardControllerParams wires the card endpoint dependencies.
type CardControllerParams struct {
	Members  members.Service
	Fetcher  avatarFetcher
	Renderer cardRenderer
	Logger   *logger.Logger
	Metrics  *metrics.CardMetrics

	// PreviewMode allows rendering cards for non-active members.
	PreviewMode bool
}

// MemberCard renders the membership card as PNG bytes. Non-active members are
// refused unless preview mode is on. A broken avatar URL degrades to the
// placeholder instead of failing the request.
func MemberCard(params CardControllerParams) http.HandlerFunc {
	logg := params.Logger
	return func(w http.ResponseWriter, r *http.Request) {
		if params.Members == nil || params.Renderer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "card pipeline unavailable"))
			return
		}

		externalID := chi.URLParam(r, "externalId")
		ctx := logg.WithExternalID(r.Context(), externalID)

		member, err := params.Members.GetByExternalID(ctx, externalID)
		if err != nil {
			params.Metrics.IncRequest("card", "error")
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if member.Status != enums.MemberStatusActive && !params.PreviewMode {
			params.Metrics.IncRequest("card", "forbidden")
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeForbidden, "card available only for active members"))
			return
		}

		var avatar image.Image
		if avatarURL := strings.TrimSpace(r.URL.Query().Get("avatar_url")); avatarURL != "" && params.Fetcher != nil {
			avatar, err = params.Fetcher.Fetch(ctx, avatarURL)
			if err != nil {
				params.Metrics.IncAvatarFallback()
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "avatar_error", err.Error()),
						"avatar fetch failed, using placeholder")
				}
				avatar = nil
			}
		}

		start := time.Now()
		data, err := params.Renderer.Render(ctx, member, avatar)
		if err != nil {
			params.Metrics.IncRequest("card", "error")
			responses.WriteError(ctx, logg, w, err)
			return
		}
		params.Metrics.ObserveRender("default", time.Since(start))

		params.Metrics.IncRequest("card", "success")
		responses.WritePNG(w, data)
	}
}
