package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "MOVIEREC"

type Config struct {
	Port  string `envconfig:"PORT" default:"3000"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// Recommendation backend serving /movies and /recommend
	APIURL string `envconfig:"API_URL" default:"http://localhost:8000"`
	// Same-origin artwork proxy serving /api/tmdb/movie/{id}
	ArtworkURL   string        `envconfig:"ARTWORK_URL" default:"http://localhost:3000"`
	ImageBaseURL string        `envconfig:"IMAGE_BASE_URL" default:"https://image.tmdb.org/t/p/w500"`
	Timeout      time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`

	Debounce       time.Duration `envconfig:"DEBOUNCE" default:"300ms"`
	RecommendCount int           `envconfig:"RECOMMEND_COUNT" default:"10"`

	TMDBAPIKey  string  `envconfig:"TMDB_API_KEY"`
	TMDBBaseURL string  `envconfig:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
	TMDBRPS     float64 `envconfig:"TMDB_RPS" default:"40"`
	TMDBBurst   int     `envconfig:"TMDB_BURST" default:"20"`

	RedisURL           string        `envconfig:"REDIS_URL"`
	ArtworkCacheTTL    time.Duration `envconfig:"ARTWORK_CACHE_TTL" default:"24h"`
	ArtworkCacheSize   int           `envconfig:"ARTWORK_CACHE_SIZE" default:"5000"`
	CacheSweepInterval time.Duration `envconfig:"CACHE_SWEEP_INTERVAL" default:"5m"`

	CORSOrigins        []string `envconfig:"CORS_ORIGINS" default:"*"`
	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"600"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogFile   string `envconfig:"LOG_FILE"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the rest of the system cannot work with
func (c *Config) Validate() error {
	if c.RecommendCount <= 0 {
		return fmt.Errorf("%s_RECOMMEND_COUNT must be positive, got %d", envPrefix, c.RecommendCount)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("%s_DEBOUNCE must not be negative", envPrefix)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%s_REQUEST_TIMEOUT must be positive", envPrefix)
	}
	c.APIURL = strings.TrimSuffix(c.APIURL, "/")
	c.ArtworkURL = strings.TrimSuffix(c.ArtworkURL, "/")
	c.TMDBBaseURL = strings.TrimSuffix(c.TMDBBaseURL, "/")
	return nil
}

func (c *Config) HasTMDB() bool {
	return c.TMDBAPIKey != ""
}

func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}
