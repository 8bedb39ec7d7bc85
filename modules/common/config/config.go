package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting of the server.
type Config struct {
	// Server
	Port string `env:"PORT" envDefault:"8080"`

	// Gemini API. The key is optional at startup; a missing key surfaces as
	// an auth failure on the first generation call.
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	LegacyAPIKey     string `env:"API_KEY"`
	GeminiCopyModel  string `env:"GEMINI_COPY_MODEL" envDefault:"gemini-3-flash-preview"`
	GeminiImageModel string `env:"GEMINI_IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`

	// Credit
	InitialCredits     int  `env:"INITIAL_CREDITS" envDefault:"142"`
	GenerationCost     int  `env:"GENERATION_COST" envDefault:"5"`
	ChargeEmptyBatches bool `env:"CHARGE_EMPTY_BATCHES" envDefault:"true"`
	SeedMockCreatives  bool `env:"SEED_MOCK_CREATIVES" envDefault:"true"`

	// Redis (optional, empty host disables event publishing)
	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisUsername string `env:"REDIS_USERNAME"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisUseTLS   bool   `env:"REDIS_USE_TLS" envDefault:"false"`
	EventsChannel string `env:"EVENTS_CHANNEL" envDefault:"adgenius:events"`

	// Download
	WebPQuality float32 `env:"WEBP_QUALITY" envDefault:"80"`

	// Workspace sessions
	SessionEmptyGrace  time.Duration `env:"SESSION_EMPTY_GRACE" envDefault:"30m"`
	SessionMaxAge      time.Duration `env:"SESSION_MAX_AGE" envDefault:"24h"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"2h"`
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	return Parse()
}

// Parse builds a Config from the current process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = cfg.LegacyAPIKey
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Gemini: copy=%s image=%s (key set: %v)", cfg.GeminiCopyModel, cfg.GeminiImageModel, cfg.GeminiAPIKey != "")
	log.Printf("   Credit: %d initial, %d per batch (charge empty batches: %v)", cfg.InitialCredits, cfg.GenerationCost, cfg.ChargeEmptyBatches)
	if cfg.RedisEnabled() {
		log.Printf("   Redis: %s (TLS: %v)", cfg.GetRedisAddr(), cfg.RedisUseTLS)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.GenerationCost <= 0 {
		return fmt.Errorf("GENERATION_COST must be positive, got %d", c.GenerationCost)
	}
	if c.InitialCredits < 0 {
		return fmt.Errorf("INITIAL_CREDITS must not be negative, got %d", c.InitialCredits)
	}
	if c.WebPQuality < 0 || c.WebPQuality > 100 {
		return fmt.Errorf("WEBP_QUALITY must be within 0-100, got %.1f", c.WebPQuality)
	}
	if c.SessionEmptyGrace <= 0 || c.SessionMaxAge <= 0 || c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("session durations must be positive")
	}
	return nil
}

// RedisEnabled reports whether a Redis host was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// GetRedisAddr returns host:port for the Redis client.
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
