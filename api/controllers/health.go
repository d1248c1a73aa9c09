package controllers

import (
	"context"
	"net/http"

	"github.com/unionhq/membercard-backend/api/responses"
	"github.com/unionhq/membercard-backend/pkg/config"
	pkgerrors "github.com/unionhq/membercard-backend/pkg/errors"
	"github.com/unionhq/membercard-backend/pkg/logger"
)

// Pinger is the readiness-check surface of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Membercard-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both the database and redis answer.
func HealthReady(cfg *config.Config, db, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Membercard-Env", cfg.App.Env)
		ctx := r.Context()

		checks := map[string]Pinger{"db": db, "redis": cache}
		for name, dep := range checks {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" not ready"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
