package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram transport settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
	File   string `yaml:"file" envconfig:"LOG_FILE"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

// RateLimitConfig holds settings for the per-user rate limit middleware.
type RateLimitConfig struct {
	IntervalMS int `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
}

// BusinessConfig carries the order-intake settings: who administers
// prices, where handoff notifications go, and the operating hours
// shown to users in the advisory branch.
type BusinessConfig struct {
	AdminID        int64  `yaml:"admin_id" envconfig:"ADMIN_ID"`
	OperatorChatID int64  `yaml:"operator_chat_id" envconfig:"OPERATOR_CHAT_ID"`
	Schedule       string `yaml:"schedule" envconfig:"SCHEDULE"`
}

const (
	// PriceBookBackendFile persists the price book to a YAML file.
	PriceBookBackendFile = "file"
	// PriceBookBackendPostgres persists the price book to Postgres.
	PriceBookBackendPostgres = "postgres"
)

// PriceBookConfig selects and configures the price book persistence backend.
type PriceBookConfig struct {
	Backend string `yaml:"backend" envconfig:"PRICEBOOK_BACKEND"`
	Path    string `yaml:"path" envconfig:"PRICEBOOK_PATH"`
}

// DatabaseConfig holds Postgres connection settings, used only when the
// price book backend is "postgres".
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	MigrationsDir  string `yaml:"migrations_dir" envconfig:"DB_MIGRATIONS_DIR"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// Config aggregates everything the bot needs at startup.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Business  BusinessConfig  `yaml:"business"`
	PriceBook PriceBookConfig `yaml:"pricebook"`
	Database  DatabaseConfig  `yaml:"database"`
}

// Load reads configuration from a YAML file and environment variables.
// A missing or invalid configuration is a fatal condition for the
// caller; there is no partial-start mode.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and adjusts defaults. All
// violations are reported together rather than one at a time.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	var errs *multierror.Error

	if cfg.Telegram.Token == "" {
		errs = multierror.Append(errs, fmt.Errorf("telegram.token is required"))
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" || rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			errs = multierror.Append(errs, fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'"))
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			errs = multierror.Append(errs, fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'"))
		}
		if cfg.Webhook.Port <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'"))
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			errs = multierror.Append(errs, fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0"))
		}
	default:
		errs = multierror.Append(errs, fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode))
	}
	cfg.Telegram.RunMode = rm

	if cfg.Business.OperatorChatID == 0 {
		errs = multierror.Append(errs, fmt.Errorf("business.operator_chat_id is required"))
	}
	if cfg.RateLimit.IntervalMS < 0 {
		errs = multierror.Append(errs, fmt.Errorf("rate_limit.interval_ms must be >= 0"))
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.PriceBook.Backend))
	if backend == "" {
		backend = PriceBookBackendFile
	}
	switch backend {
	case PriceBookBackendFile:
		if strings.TrimSpace(cfg.PriceBook.Path) == "" {
			cfg.PriceBook.Path = "pricebook.yaml"
		}
	case PriceBookBackendPostgres:
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			errs = multierror.Append(errs, fmt.Errorf("database.host, database.name and database.user are required when pricebook.backend is 'postgres'"))
		}
		if cfg.Database.Port == "" {
			cfg.Database.Port = "5432"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
		if cfg.Database.MaxConnections <= 0 {
			cfg.Database.MaxConnections = 4
		}
		if cfg.Database.MigrationsDir == "" {
			cfg.Database.MigrationsDir = "migrations"
		}
	default:
		errs = multierror.Append(errs, fmt.Errorf("invalid pricebook.backend %q; allowed: file, postgres", cfg.PriceBook.Backend))
	}
	cfg.PriceBook.Backend = backend

	return errs.ErrorOrNil()
}
