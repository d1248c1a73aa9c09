package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unionhq/membercard-backend/api/controllers"
	"github.com/unionhq/membercard-backend/api/middleware"
	"github.com/unionhq/membercard-backend/internal/guilds"
	"github.com/unionhq/membercard-backend/internal/members"
	"github.com/unionhq/membercard-backend/pkg/config"
	"github.com/unionhq/membercard-backend/pkg/logger"
	"github.com/unionhq/membercard-backend/pkg/metrics"
	"github.com/unionhq/membercard-backend/pkg/redis"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.CardMetrics

	DBPinger    controllers.Pinger
	RedisClient *redis.Client

	Members members.Service
	Guilds  guilds.Service
	Card    controllers.CardControllerParams
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	registerPolicy := middleware.NewRateLimitPolicy(
		"register",
		cfg.RateLimit.RegisterWindow,
		cfg.RateLimit.RegisterIPLimit,
		cfg.RateLimit.RegisterExternalIDLimit,
	)
	cardPolicy := middleware.NewRateLimitPolicy(
		"card",
		cfg.RateLimit.CardWindow,
		cfg.RateLimit.CardIPLimit,
		0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, params.DBPinger, params.RedisClient, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/members", func(r chi.Router) {
		r.With(middleware.RateLimit(registerPolicy, params.RedisClient, logg)).
			Post("/register", controllers.MemberRegister(params.Members, logg, params.Metrics))

		r.Route("/{externalId}", func(r chi.Router) {
			r.Post("/approve", controllers.MemberApprove(params.Members, logg, params.Metrics))
			r.Post("/reject", controllers.MemberReject(params.Members, logg, params.Metrics))
			r.Post("/revoke", controllers.MemberRevoke(params.Members, logg, params.Metrics))
			r.Get("/status", controllers.MemberStatus(params.Members, logg, params.Metrics))
			r.With(middleware.RateLimit(cardPolicy, params.RedisClient, logg)).
				Get("/card", controllers.MemberCard(params.Card))
		})
	})

	r.Route("/api/v1/guilds/{guildId}", func(r chi.Router) {
		r.Get("/config", controllers.GuildConfigGet(params.Guilds, logg))
		r.Put("/config", controllers.GuildConfigUpsert(params.Guilds, logg))
	})

	return r
}
