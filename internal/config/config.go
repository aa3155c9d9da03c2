package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultAppEnv        = "development"
	defaultDBPath        = "./dev.db"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultCurrency      = "USD"
	defaultFXTTL         = 12 * time.Hour
	defaultInsightModel  = "gemini-2.5-flash"
	defaultFallbackModel = "gemini-2.0-flash"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv               string
	Port                 string
	DBPath               string
	LogLevel             string
	TokenSecret          string
	TeamRatesPath        string
	DefaultCurrency      string
	RedisAddr            string
	FXEndpoint           string
	FXTTL                time.Duration
	GoogleAPIKey         string
	GoogleCloudProject   string
	GoogleCloudLocation  string
	InsightModel         string
	InsightFallbackModel string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("could not read .env")
	}

	cfg := Config{
		AppEnv:               getenv("APP_ENV", defaultAppEnv),
		Port:                 getenv("PORT", defaultPort),
		DBPath:               getenv("DB_PATH", defaultDBPath),
		LogLevel:             getenv("LOG_LEVEL", defaultLogLevel),
		TokenSecret:          os.Getenv("TOKEN_SECRET"),
		TeamRatesPath:        os.Getenv("TEAM_RATES_PATH"),
		DefaultCurrency:      strings.ToUpper(getenv("DEFAULT_CURRENCY", defaultCurrency)),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		FXEndpoint:           os.Getenv("FX_ENDPOINT"),
		FXTTL:                defaultFXTTL,
		GoogleAPIKey:         os.Getenv("GOOGLE_API_KEY"),
		GoogleCloudProject:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GoogleCloudLocation:  os.Getenv("GOOGLE_CLOUD_LOCATION"),
		InsightModel:         getenv("INSIGHT_MODEL", defaultInsightModel),
		InsightFallbackModel: getenv("INSIGHT_FALLBACK_MODEL", defaultFallbackModel),
	}

	if raw := os.Getenv("FX_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			log.Warn().Str("value", raw).Msg("invalid FX_TTL, using default")
		} else {
			cfg.FXTTL = ttl
		}
	}

	if cfg.TokenSecret == "" {
		log.Warn().Msg("TOKEN_SECRET is not set")
	}
	if !cfg.InsightEnabled() {
		log.Warn().Msg("GOOGLE_API_KEY and GOOGLE_CLOUD_PROJECT are not set, complexity insight disabled")
	}

	return cfg
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.AppEnv == defaultAppEnv
}

// InsightEnabled reports whether credentials for the insight models exist.
func (c Config) InsightEnabled() bool {
	return c.GoogleAPIKey != "" || c.GoogleCloudProject != ""
}

// SetupLogger configures the global zerolog logger: human readable output in
// development and the level named by LogLevel.
func (c Config) SetupLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if c.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return log.Logger
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
