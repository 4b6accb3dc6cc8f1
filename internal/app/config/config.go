// Package config loads the application settings: an optional YAML file,
// then .env, then environment variables, then defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"stocks_bot/internal/platform/audit"
	"stocks_bot/internal/platform/db"
	"stocks_bot/internal/platform/externalapi/polygon"
	"stocks_bot/internal/platform/redis"
)

// DefaultPath is read when CONFIG_PATH is not set. A missing default file is not an error.
const DefaultPath = "configs/config.yaml"

// Config はアプリケーション全体の設定です。
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Polygon  polygon.Config `yaml:"polygon"`
	DB       db.Config      `yaml:"database"`
	Redis    redis.Config   `yaml:"redis"`
	Kafka    audit.Config   `yaml:"kafka"`
	Session  SessionConfig  `yaml:"session"`
	Cache    CacheConfig    `yaml:"cache"`
	Chart    ChartConfig    `yaml:"chart"`
	HTTP     HTTPConfig     `yaml:"http"`
	Workers  WorkerConfig   `yaml:"workers"`
	Janitor  JanitorConfig  `yaml:"janitor"`
	Log      LogConfig      `yaml:"log"`
}

type TelegramConfig struct {
	Token       string `yaml:"token" envconfig:"TELEGRAM_TOKEN"`
	PollTimeout int    `yaml:"poll_timeout" envconfig:"TELEGRAM_POLL_TIMEOUT"` // seconds
	Debug       bool   `yaml:"debug" envconfig:"TELEGRAM_DEBUG"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl" envconfig:"SESSION_TTL"`
}

// CacheConfig は Redis 上の直近値・銘柄情報キャッシュの設定です。
type CacheConfig struct {
	DetailsTTL time.Duration `yaml:"details_ttl" envconfig:"CACHE_DETAILS_TTL"`
	Namespace  string        `yaml:"namespace" envconfig:"CACHE_NAMESPACE"`
}

type ChartConfig struct {
	Dir string `yaml:"dir" envconfig:"CHART_DIR"`
}

// HTTPConfig configures the JSON query API. An empty Addr disables it.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" envconfig:"HTTP_ADDR"`
	JWTSecret       string        `yaml:"jwt_secret" envconfig:"JWT_SECRET"`
	TokenTTL        time.Duration `yaml:"token_ttl" envconfig:"JWT_TOKEN_TTL"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"HTTP_SHUTDOWN_TIMEOUT"`
}

type WorkerConfig struct {
	Size       int           `yaml:"size" envconfig:"WORKER_POOL_SIZE"`
	Queue      int           `yaml:"queue" envconfig:"WORKER_QUEUE_SIZE"`
	JobTimeout time.Duration `yaml:"job_timeout" envconfig:"WORKER_JOB_TIMEOUT"`
}

type JanitorConfig struct {
	Schedule string        `yaml:"schedule" envconfig:"JANITOR_SCHEDULE"`
	MaxAge   time.Duration `yaml:"max_age" envconfig:"JANITOR_MAX_AGE"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" envconfig:"LOG_FORMAT"` // text or json
}

// Load reads the configuration. path overrides CONFIG_PATH; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	// .env が無い環境（本番）では環境変数のみを使う
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	explicit := true
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path, explicit = DefaultPath, false
	}

	var cfg Config
	if err := readYAML(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// WithDefaults fills zero values.
func (c Config) WithDefaults() Config {
	c.Polygon = c.Polygon.WithDefaults()

	if c.Telegram.PollTimeout <= 0 {
		c.Telegram.PollTimeout = 60
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = 30 * time.Minute
	}
	if c.Cache.DetailsTTL <= 0 {
		c.Cache.DetailsTTL = 24 * time.Hour
	}
	if c.Cache.Namespace == "" {
		c.Cache.Namespace = "quotes"
	}
	if c.Chart.Dir == "" {
		// janitor は古い PNG を削除するため、共有の一時ディレクトリ直下は使わない
		c.Chart.Dir = filepath.Join(os.TempDir(), "stocks_bot_charts")
	}
	if c.HTTP.TokenTTL <= 0 {
		c.HTTP.TokenTTL = 30 * 24 * time.Hour
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.Workers.Size <= 0 {
		c.Workers.Size = 4
	}
	if c.Workers.Queue <= 0 {
		c.Workers.Queue = 8 * c.Workers.Size
	}
	if c.Workers.JobTimeout <= 0 {
		c.Workers.JobTimeout = 2 * time.Minute
	}
	if c.Janitor.MaxAge <= 0 {
		c.Janitor.MaxAge = time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	return c
}

// Validate reports every missing or inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required"))
	}
	if c.Polygon.APIKey == "" {
		errs = append(errs, errors.New("POLYGON_API_KEY is required"))
	}
	if c.HTTP.Addr != "" && c.HTTP.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required when HTTP_ADDR is set"))
	}
	if c.Workers.Queue < c.Workers.Size {
		errs = append(errs, fmt.Errorf("WORKER_QUEUE_SIZE (%d) must be >= WORKER_POOL_SIZE (%d)", c.Workers.Queue, c.Workers.Size))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL %q: %w", s, err)
	}
	return lvl, nil
}
