package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// setRequired sets the secrets every valid configuration needs.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("POLYGON_API_KEY", "pk")
	t.Setenv("JWT_SECRET", "secret")
}

// t.Setenv を使うため、このパッケージのテストは並列実行しない

func TestLoad_YAMLThenEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("WORKER_POOL_SIZE", "6")
	t.Setenv("POLYGON_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("KAFKA_BROKERS", "kafka:9092")

	path := writeConfig(t, `
polygon:
  timeout: 3s
  requests_per_minute: 100
  retry:
    max_attempts: 2
database:
  host: db.internal
  run_migrations: true
workers:
  size: 2
  queue: 20
http:
  addr: ":9090"
log:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, 3*time.Second, cfg.Polygon.Timeout)
	assert.Equal(t, 100, cfg.Polygon.RequestsPerMinute)
	assert.Equal(t, 5, cfg.Polygon.Retry.MaxAttempts, "env must override yaml")
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.True(t, cfg.DB.RunMigrations)
	assert.Equal(t, 6, cfg.Workers.Size, "env must override yaml")
	assert.Equal(t, 20, cfg.Workers.Queue)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.BrokerList())
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Telegram.PollTimeout)
	assert.Equal(t, "https://api.polygon.io", cfg.Polygon.BaseURL)
	assert.Equal(t, 5, cfg.Polygon.RequestsPerMinute)
	assert.Equal(t, 72*time.Hour, cfg.Polygon.QuoteLag)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "quotes", cfg.Cache.Namespace)
	assert.Equal(t, filepath.Join(os.TempDir(), "stocks_bot_charts"), cfg.Chart.Dir)
	assert.Equal(t, 4, cfg.Workers.Size)
	assert.Equal(t, 32, cfg.Workers.Queue)
	assert.Equal(t, 2*time.Minute, cfg.Workers.JobTimeout)
	assert.Equal(t, time.Hour, cfg.Janitor.MaxAge)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.HTTP.Addr, "HTTP API is off unless configured")
	assert.False(t, cfg.Kafka.Enabled())
}

func TestLoad_MissingFile(t *testing.T) {
	setRequired(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	cfg, err := Load("")
	require.NoError(t, err, "the default path is optional")
	assert.Equal(t, "pk", cfg.Polygon.APIKey)
}

func TestLoad_InvalidYAML(t *testing.T) {
	setRequired(t)
	_, err := Load(writeConfig(t, "workers: [1, 2"))
	assert.ErrorContains(t, err, "parse config")
}

func TestLoad_ConfigPathEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("CONFIG_PATH", writeConfig(t, "chart:\n  dir: /var/charts\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/var/charts", cfg.Chart.Dir)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		c := Config{}
		c.Telegram.Token = "t"
		c.Polygon.APIKey = "k"
		return c.WithDefaults()
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"success: minimal", func(c *Config) {}, ""},
		{"error: no telegram token", func(c *Config) { c.Telegram.Token = "" }, "TELEGRAM_TOKEN"},
		{"error: no polygon key", func(c *Config) { c.Polygon.APIKey = "" }, "POLYGON_API_KEY"},
		{"error: api without secret", func(c *Config) { c.HTTP.Addr = ":8080" }, "JWT_SECRET"},
		{"error: queue smaller than pool", func(c *Config) { c.Workers.Queue = 1 }, "WORKER_QUEUE_SIZE"},
		{"error: bad level", func(c *Config) { c.Log.Level = "loud" }, "LOG_LEVEL"},
		{"error: bad format", func(c *Config) { c.Log.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, "WARN", lvl.String())

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
