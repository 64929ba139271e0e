package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Twitch holds the bot credentials shared by both services.
type Twitch struct {
	BotUsername string `env:"BOT_USERNAME"`
	BotOAuth    string `env:"BOT_OAUTH"`
	ClientID    string `env:"TWITCH_CLIENT_ID"`
	HelixURL    string `env:"TWITCH_HELIX_URL" envDefault:"https://api.twitch.tv/helix"`

	// Helix chat-message pacing
	RatePerSecond float64 `env:"HELIX_RATE_PER_SECOND" envDefault:"1"`
	RateBurst     int     `env:"HELIX_RATE_BURST" envDefault:"5"`
}

// HelixEnabled reports whether enough credentials are present to call Helix as the bot.
func (t Twitch) HelixEnabled() bool {
	return t.ClientID != "" && t.BotUsername != "" && t.BotOAuth != ""
}

// CollectorConfig configures the Entry Collector binary.
type CollectorConfig struct {
	Debug     bool   `env:"DEBUG" envDefault:"false"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	Server struct {
		Port int `env:"PORT" envDefault:"3001"`
	}

	Twitch Twitch

	Giveaway struct {
		JoinTimeout    time.Duration `env:"CHAT_JOIN_TIMEOUT" envDefault:"10s"`
		StatusInterval time.Duration `env:"STATUS_INTERVAL" envDefault:"30s"`
	}

	Webhook struct {
		Secret string `env:"WEBHOOK_SECRET"`
	}

	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`
}

// OrchestratorConfig configures the Settings Orchestrator binary.
type OrchestratorConfig struct {
	Debug     bool   `env:"DEBUG" envDefault:"false"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"3000"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
		// Public base URL of this service; the Collector calls back to AuthURL + "/webhook".
		AuthURL string `env:"AUTH_URL" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Collector struct {
		URL             string        `env:"BOT_API_URL" envDefault:"http://localhost:3001"`
		BreakerFailures uint32        `env:"COLLECTOR_BREAKER_FAILURES" envDefault:"5"`
		BreakerTimeout  time.Duration `env:"COLLECTOR_BREAKER_TIMEOUT" envDefault:"30s"`
	}

	Twitch Twitch

	Webhook struct {
		Secret string `env:"WEBHOOK_SECRET"`
	}

	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`
}

// WebhookURL is the callback target handed to the Collector on every create.
func (c *OrchestratorConfig) WebhookURL() string {
	return strings.TrimRight(c.Server.AuthURL, "/") + "/webhook"
}

// RedisAddr returns host:port for the profile store.
func (c *OrchestratorConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// LoadCollector reads the Collector configuration from the environment.
func LoadCollector() (*CollectorConfig, error) {
	loadDotEnv()

	cfg := &CollectorConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse collector config: %w", err)
	}
	if cfg.Twitch.BotUsername == "" || cfg.Twitch.BotOAuth == "" {
		return nil, fmt.Errorf("missing twitch env: require BOT_USERNAME, BOT_OAUTH")
	}
	if cfg.Giveaway.StatusInterval <= 0 {
		return nil, fmt.Errorf("invalid STATUS_INTERVAL: %s", cfg.Giveaway.StatusInterval)
	}
	return cfg, nil
}

// LoadOrchestrator reads the Orchestrator configuration from the environment.
func LoadOrchestrator() (*OrchestratorConfig, error) {
	loadDotEnv()

	cfg := &OrchestratorConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse orchestrator config: %w", err)
	}
	return cfg, nil
}

func loadDotEnv() {
	// .env is a local convenience; in production variables come from the environment
	_ = godotenv.Load()
}
