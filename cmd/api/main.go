package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unionhq/membercard-backend/api/controllers"
	"github.com/unionhq/membercard-backend/api/routes"
	"github.com/unionhq/membercard-backend/internal/avatars"
	"github.com/unionhq/membercard-backend/internal/cards"
	"github.com/unionhq/membercard-backend/internal/guilds"
	"github.com/unionhq/membercard-backend/internal/members"
	"github.com/unionhq/membercard-backend/pkg/config"
	"github.com/unionhq/membercard-backend/pkg/db"
	"github.com/unionhq/membercard-backend/pkg/logger"
	"github.com/unionhq/membercard-backend/pkg/metrics"
	"github.com/unionhq/membercard-backend/pkg/migrate"
	"github.com/unionhq/membercard-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	cardMetrics := metrics.NewCardMetrics(prometheus.DefaultRegisterer)

	memberRepo := members.NewRepository(dbClient.DB())
	memberService, err := members.NewService(members.ServiceParams{
		Repo:             memberRepo,
		IDGen:            members.NewPublicIDGenerator(memberRepo),
		Credential:       cfg.Credential,
		ReapproveRefresh: cfg.FeatureFlags.ReapproveRefresh,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create member service", err)
		os.Exit(1)
	}

	guildService, err := guilds.NewService(guilds.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create guild service", err)
		os.Exit(1)
	}

	compositor, err := cards.NewCompositor(cfg.Card, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create card compositor", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	router := routes.NewRouter(routes.RouterParams{
		Config:      cfg,
		Logger:      logg,
		Metrics:     cardMetrics,
		DBPinger:    dbClient,
		RedisClient: redisClient,
		Members:     memberService,
		Guilds:      guildService,
		Card: controllers.CardControllerParams{
			Members:     memberService,
			Fetcher:     avatars.NewFetcher(cfg.Avatar),
			Renderer:    compositor,
			Logger:      logg,
			Metrics:     cardMetrics,
			PreviewMode: cfg.FeatureFlags.CardPreviewMode,
		},
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
