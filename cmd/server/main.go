package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Simplici0/webquote/internal/app"
	"github.com/Simplici0/webquote/internal/config"
	"github.com/Simplici0/webquote/internal/db"
	"github.com/Simplici0/webquote/internal/estimate"
	"github.com/Simplici0/webquote/internal/migrations"
	"github.com/Simplici0/webquote/internal/seed"
	"github.com/Simplici0/webquote/internal/store"
)

const requestTimeout = 60 * time.Second

type estimateStore interface {
	Save(ctx context.Context, e *estimate.Estimate) error
	Get(ctx context.Context, id string) (*estimate.Estimate, error)
	List(ctx context.Context, query string) ([]store.Summary, error)
}

type server struct {
	svc         *estimate.Service
	store       estimateStore
	fx          estimate.SnapshotSource
	tokenSecret string
	log         zerolog.Logger
}

func main() {
	cfg := config.Load()
	logger := cfg.SetupLogger()
	ctx := context.Background()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	team, err := app.TeamRates(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load team rates")
	}

	stats, err := seed.Run(database, team)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed team roles")
	}
	log.Info().Int("inserts", stats.Inserts).Int("updates", stats.Updates).Msg("team roles seeded")

	st := store.New(database)
	fx := app.FXProvider(cfg, logger)
	svc := estimate.NewService(estimate.Options{
		Team:    team,
		Roles:   st,
		FX:      fx,
		Insight: app.InsightProvider(ctx, cfg, logger),
		Logger:  logger,
	})

	srv := &server{svc: svc, store: st, fx: fx, tokenSecret: cfg.TokenSecret, log: logger}

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.AppEnv).Msg("listening")
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/rates", s.handleRates)
		r.Get("/fx", s.handleFX)
		r.Post("/calculate", s.handleCalculate)
		r.Post("/estimates", s.handleEstimateCreate)
		r.Get("/estimates", s.handleEstimatesList)
		r.Get("/estimates/{id}", s.handleEstimateGet)
		r.Get("/estimates/{id}/text", s.handleEstimateText)
	})

	return r
}
