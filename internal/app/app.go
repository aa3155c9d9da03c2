// Package app builds the collaborators shared by the server and the CLI from
// the loaded configuration.
package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Simplici0/webquote/internal/config"
	"github.com/Simplici0/webquote/internal/currency"
	"github.com/Simplici0/webquote/internal/insight"
	"github.com/Simplici0/webquote/internal/teamrates"
)

const (
	fxFetchTimeout   = 5 * time.Second
	fxCacheRetention = 7 * 24 * time.Hour
)

// TeamRates loads the team-rate file. Without a file the built-in team is
// priced in the configured default currency.
func TeamRates(cfg config.Config) (teamrates.Config, error) {
	team, err := teamrates.Load(cfg.TeamRatesPath)
	if err != nil {
		return teamrates.Config{}, err
	}
	if cfg.TeamRatesPath == "" && currency.Supported(cfg.DefaultCurrency) {
		team.Currency = currency.Normalize(cfg.DefaultCurrency)
	}
	return team, nil
}

// FXProvider caches in redis when REDIS_ADDR is set and in memory otherwise.
// Without FX_ENDPOINT it only ever serves the static table.
func FXProvider(cfg config.Config, log zerolog.Logger) *currency.Provider {
	var cache currency.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cache = currency.NewRedisCache(rdb, fxCacheRetention)
		log.Info().Str("addr", cfg.RedisAddr).Msg("exchange rates cached in redis")
	}

	var fetcher currency.Fetcher
	if cfg.FXEndpoint != "" {
		fetcher = currency.NewHTTPFetcher(cfg.FXEndpoint, fxFetchTimeout)
	} else {
		log.Warn().Msg("FX_ENDPOINT is not set, using static exchange rates")
	}

	return currency.NewProvider(cache, fetcher, cfg.FXTTL, log)
}

// InsightProvider returns nil when no Google credentials are configured.
func InsightProvider(ctx context.Context, cfg config.Config, log zerolog.Logger) insight.Provider {
	if !cfg.InsightEnabled() {
		return nil
	}

	client, err := insight.NewClient(ctx, insight.ClientConfig{
		APIKey:   cfg.GoogleAPIKey,
		Project:  cfg.GoogleCloudProject,
		Location: cfg.GoogleCloudLocation,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to create genai client, complexity insight disabled")
		return nil
	}

	var fallback insight.Provider
	if cfg.InsightFallbackModel != "" && cfg.InsightFallbackModel != cfg.InsightModel {
		fallback = insight.NewGeminiProvider(client, cfg.InsightFallbackModel)
	}
	return insight.NewResilientProvider(insight.NewGeminiProvider(client, cfg.InsightModel), fallback, log)
}
