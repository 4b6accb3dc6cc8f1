package db

import (
	"fmt"
	"strings"
)

// Config holds the PostgreSQL connection settings.
type Config struct {
	User          string `yaml:"user" envconfig:"DB_USER"`
	Password      string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name          string `yaml:"name" envconfig:"DB_NAME"`
	Host          string `yaml:"host" envconfig:"DB_HOST"`
	Port          string `yaml:"port" envconfig:"DB_PORT"`
	SSLMode       string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	InstanceName  string `yaml:"instance_connection_name" envconfig:"INSTANCE_CONNECTION_NAME"` // Cloud SQL（Unixソケット接続）
	RunMigrations bool   `yaml:"run_migrations" envconfig:"RUN_MIGRATIONS"`
}

// BuildDSN returns a key/value PostgreSQL DSN accepted by both pgx and lib/pq.
// When InstanceName is set the Cloud SQL Unix socket is used instead of Host/Port.
func BuildDSN(cfg Config) string {
	host, port := cfg.Host, cfg.Port
	if cfg.InstanceName != "" {
		host, port = "/cloudsql/"+cfg.InstanceName, ""
	}
	if host == "" {
		host = "localhost"
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	parts := []string{
		"host=" + quote(host),
	}
	if port != "" {
		parts = append(parts, "port="+quote(port))
	}
	parts = append(parts,
		"user="+quote(cfg.User),
		"password="+quote(cfg.Password),
		"dbname="+quote(cfg.Name),
		"sslmode="+sslmode,
	)
	return strings.Join(parts, " ")
}

// quote escapes a DSN value when it contains spaces, quotes or is empty.
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return fmt.Sprintf("'%s'", v)
}
