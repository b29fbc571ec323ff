package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	SlackBotToken string `envconfig:"SLACK_BOT_TOKEN"`
	NotionAPIKey  string `envconfig:"NOTION_API_KEY"`

	// SearchStrategy selects the ranker: "vector" or "substring".
	// The substring strategy is a degraded mode for deployments without
	// a vector index and reports a fixed low-confidence similarity.
	SearchStrategy string `envconfig:"SEARCH_STRATEGY" default:"vector"`

	SimilarityThreshold float64       `envconfig:"SIMILARITY_THRESHOLD" default:"0.7"`
	SearchCacheTTL      time.Duration `envconfig:"SEARCH_CACHE_TTL" default:"5m"`
	StatsCacheTTL       time.Duration `envconfig:"STATS_CACHE_TTL" default:"1m"`
	CacheMaxEntries     int           `envconfig:"CACHE_MAX_ENTRIES" default:"1000"`

	SearchRateLimit int           `envconfig:"SEARCH_RATE_LIMIT" default:"20"`
	IngestRateLimit int           `envconfig:"INGEST_RATE_LIMIT" default:"3"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitSweep  time.Duration `envconfig:"RATE_LIMIT_SWEEP" default:"1m"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("MNEMONIC", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasSlack() bool {
	return c.SlackBotToken != ""
}

func (c *Config) HasNotion() bool {
	return c.NotionAPIKey != ""
}
