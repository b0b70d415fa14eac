package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries the terminal-side knobs. Everything the SPA read from
// VITE_* variables lives here.
type Config struct {
	APIBase            string        `envconfig:"LICORERA_API_BASE" default:"http://127.0.0.1:8000/api"`
	AdminKey           string        `envconfig:"LICORERA_ADMIN_KEY" default:"CambiaEstaClave"`
	HTTPTimeout        time.Duration `envconfig:"LICORERA_HTTP_TIMEOUT" default:"15s"`
	LicensePollEvery   time.Duration `envconfig:"LICORERA_LICENSE_POLL" default:"10s"`
	StatsPollEvery     time.Duration `envconfig:"LICORERA_STATS_POLL" default:"60s"`
	RedisAddr          string        `envconfig:"LICORERA_REDIS_ADDR" default:""`
	CatalogSnapshotKey string        `envconfig:"LICORERA_CATALOG_KEY" default:"catalog:snapshot"`
	SessionSecret      string        `envconfig:"LICORERA_SESSION_SECRET" default:""`
	LogLevel           string        `envconfig:"LICORERA_LOG_LEVEL" default:"info"`
}

// Load reads .env (when present) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.APIBase = NormalizeAPIBase(cfg.APIBase)
	return &cfg, nil
}

// NormalizeAPIBase strips trailing slashes so path joining stays predictable.
func NormalizeAPIBase(raw string) string {
	return strings.TrimRight(raw, "/")
}
