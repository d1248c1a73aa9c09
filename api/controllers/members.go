package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/unionhq/membercard-backend/api/responses"
	"github.com/unionhq/membercard-backend/api/validators"
	"github.com/unionhq/membercard-backend/internal/members"
	"github.com/unionhq/membercard-backend/pkg/db/models"
	pkgerrors "github.com/unionhq/membercard-backend/pkg/errors"
	"github.com/unionhq/membercard-backend/pkg/logger"
	"github.com/unionhq/membercard-backend/pkg/metrics"
)

type memberRegisterRequest struct {
	ExternalID  string `json:"external_id" validate:"required"`
	FullName    string `json:"full_name" validate:"required"`
	Nationality string `json:"nationality" validate:"required"`
	Credential  string `json:"credential" validate:"required"`
}

// MemberRegister handles new registrations and re-submissions after a
// rejection or revocation.
func MemberRegister(svc members.Service, logg *logger.Logger, m *metrics.CardMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		var payload memberRegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			m.IncRequest("register", "error")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithExternalID(r.Context(), strings.TrimSpace(payload.ExternalID))

		member, err := svc.Register(ctx, members.RegisterInput{
			ExternalID:  payload.ExternalID,
			FullName:    payload.FullName,
			Nationality: payload.Nationality,
			Credential:  payload.Credential,
		})
		if err != nil {
			m.IncRequest("register", "error")
			responses.WriteError(ctx, logg, w, err)
			return
		}

		m.IncRequest("register", "success")
		responses.WriteSuccessStatus(w, http.StatusCreated, members.ToDTO(member))
	}
}

// MemberApprove activates a membership and stamps the issue timestamps.
func MemberApprove(svc members.Service, logg *logger.Logger, m *metrics.CardMetrics) http.HandlerFunc {
	return lifecycleHandler("approve", svc, logg, m, func() lifecycleOp { return svc.Approve })
}

// MemberReject declines a pending registration.
func MemberReject(svc members.Service, logg *logger.Logger, m *metrics.CardMetrics) http.HandlerFunc {
	return lifecycleHandler("reject", svc, logg, m, func() lifecycleOp { return svc.Reject })
}

// MemberRevoke withdraws an active membership.
func MemberRevoke(svc members.Service, logg *logger.Logger, m *metrics.CardMetrics) http.HandlerFunc {
	return lifecycleHandler("revoke", svc, logg, m, func() lifecycleOp { return svc.Revoke })
}

// MemberStatus returns the minimal status payload for a member.
func MemberStatus(svc members.Service, logg *logger.Logger, m *metrics.CardMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		externalID := chi.URLParam(r, "externalId")
		ctx := logg.WithExternalID(r.Context(), externalID)

		member, err := svc.GetByExternalID(ctx, externalID)
		if err != nil {
			m.IncRequest("status", "error")
			responses.WriteError(ctx, logg, w, err)
			return
		}

		m.IncRequest("status", "success")
		responses.WriteSuccess(w, members.ToStatusDTO(member))
	}
}

type lifecycleOp func(ctx context.Context, externalID string) (*models.Member, error)

func lifecycleHandler(operation string, svc members.Service, logg *logger.Logger, m *metrics.CardMetrics, op func() lifecycleOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "member service unavailable"))
			return
		}

		externalID := chi.URLParam(r, "externalId")
		ctx := logg.WithExternalID(r.Context(), externalID)

		member, err := op()(ctx, externalID)
		if err != nil {
			m.IncRequest(operation, "error")
			responses.WriteError(ctx, logg, w, err)
			return
		}

		m.IncRequest(operation, "success")
		responses.WriteSuccess(w, members.ToDTO(member))
	}
}
